package acp

import (
	"context"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/utils"
	"sort"
	"strings"
	"time"

	"github.com/samply/golang-fhir-models/fhir-models/fhir"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type acpIntegratedDataUsecase struct {
	Cache contracts.ResourceCache
	Log   *zap.Logger
}

func NewAcpIntegratedDataUsecase(resourceCache contracts.ResourceCache, logger *zap.Logger) contracts.AcpIntegratedDataUsecase {
	return &acpIntegratedDataUsecase{
		Cache: resourceCache,
		Log:   logger,
	}
}

// loadedResources holds the cached resources by kind, in sorted key order.
type loadedResources struct {
	procedures             []*models.ClinicalResource
	encounters             []*models.ClinicalResource
	questionnaireResponses []*models.ClinicalResource
	observations           []*models.ClinicalResource
	goals                  []*models.ClinicalResource
	consents               []*models.ClinicalResource
}

// LoadIntegratedData builds the ACP overview from the cache only. It never
// writes to the cache.
func (uc *acpIntegratedDataUsecase) LoadIntegratedData(ctx context.Context, currentPatient *fhir.Patient) (*models.IntegratedDataset, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	dataset := models.NewIntegratedDataset()
	if currentPatient == nil {
		return dataset, nil
	}

	keys, err := uc.Cache.Keys(ctx)
	if err != nil {
		uc.Log.Error("acpIntegratedDataUsecase.LoadIntegratedData error calling Cache.Keys",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	sort.Strings(keys)

	patientID := stringValue(currentPatient.Id)
	uc.Log.Info("acpIntegratedDataUsecase.LoadIntegratedData called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.Int(constvars.LoggingCountKey, len(keys)),
	)

	dataset.CurrentPatient = uc.loadPatient(ctx, keys, currentPatient)
	dataset.PatientSummary = BuildPatientSummary(dataset.CurrentPatient)

	loaded := uc.loadResources(ctx, keys, patientID)

	for _, resource := range loaded.observations {
		dataset.AllObservations = append(dataset.AllObservations, *resource.Observation)
	}
	for _, resource := range loaded.consents {
		dataset.AllConsents = append(dataset.AllConsents, *resource.Consent)
	}

	buildGoals(loaded.goals, dataset)
	buildTreatmentDirectives(loaded.consents, dataset)
	buildLatestObservations(dataset)
	buildEncounterViews(loaded, dataset)

	return dataset, nil
}

func (uc *acpIntegratedDataUsecase) loadPatient(ctx context.Context, keys []string, currentPatient *fhir.Patient) *fhir.Patient {
	patientID := stringValue(currentPatient.Id)
	if patientID == "" {
		return currentPatient
	}

	legacyKey := constvars.ResourcePatient + "-" + patientID
	canonicalSuffix := "_" + constvars.ResourcePatient + "_" + patientID
	for _, key := range keys {
		if !strings.HasPrefix(key, legacyKey+"-") && key != legacyKey && !strings.HasSuffix(key, canonicalSuffix) {
			continue
		}
		resource := uc.loadResource(ctx, key)
		if resource != nil && resource.Kind == models.KindPatient {
			return resource.Patient
		}
	}
	return currentPatient
}

// loadResources skips resources whose subject or patient names another patient.
// Resources without either reference are kept.
func (uc *acpIntegratedDataUsecase) loadResources(ctx context.Context, keys []string, patientID string) *loadedResources {
	loaded := &loadedResources{}
	for _, key := range keys {
		var (
			target *[]*models.ClinicalResource
			kind   models.ResourceKind
		)
		switch {
		case strings.Contains(key, constvars.ResourceProcedure) && !strings.Contains(key, constvars.ResourceQuestionnaireResponse):
			target, kind = &loaded.procedures, models.KindProcedure
		case strings.Contains(key, constvars.ResourceEncounter):
			target, kind = &loaded.encounters, models.KindEncounter
		case strings.Contains(key, constvars.ResourceQuestionnaireResponse):
			target, kind = &loaded.questionnaireResponses, models.KindQuestionnaireResponse
		case strings.Contains(key, constvars.ResourceObservation):
			target, kind = &loaded.observations, models.KindObservation
		case strings.Contains(key, constvars.ResourceGoal):
			target, kind = &loaded.goals, models.KindGoal
		case strings.Contains(key, constvars.ResourceConsent):
			target, kind = &loaded.consents, models.KindConsent
		default:
			continue
		}

		resource := uc.loadResource(ctx, key)
		if resource == nil || resource.Kind != kind {
			continue
		}
		if belongsToOtherPatient(resource, patientID) {
			uc.Log.Debug("acpIntegratedDataUsecase.loadResources skipping resource of another patient",
				zap.String(constvars.LoggingCacheKey, key),
				zap.String(constvars.LoggingPatientIDKey, patientID),
			)
			continue
		}
		*target = append(*target, resource)
	}
	return loaded
}

func belongsToOtherPatient(resource *models.ClinicalResource, patientID string) bool {
	if patientID == "" {
		return false
	}
	for _, path := range []string{"subject.reference", "patient.reference"} {
		reference := gjson.GetBytes(resource.Raw, path).String()
		resourceType, resourceID, ok := utils.SplitReference(reference)
		if !ok || resourceType != constvars.ResourcePatient {
			continue
		}
		if resourceID != patientID {
			return true
		}
	}
	return false
}

// loadResource returns nil for missing, empty or unparseable entries.
func (uc *acpIntegratedDataUsecase) loadResource(ctx context.Context, key string) *models.ClinicalResource {
	value, found, err := uc.Cache.GetString(ctx, key)
	if err != nil || !found || value == "" {
		return nil
	}
	resource, err := models.DecodeClinicalResource([]byte(value))
	if err != nil {
		uc.Log.Debug("acpIntegratedDataUsecase.loadResource skipping unparseable entry",
			zap.String(constvars.LoggingCacheKey, key),
			zap.Error(err),
		)
		return nil
	}
	return resource
}

func buildGoals(goals []*models.ClinicalResource, dataset *models.IntegratedDataset) {
	for _, resource := range goals {
		if hasAnyCode(&resource.Goal.Description, constvars.AcpGoalCodes) {
			dataset.PatientGoals = append(dataset.PatientGoals, *resource.Goal)
		}
	}
	if len(dataset.PatientGoals) == 0 {
		return
	}

	latest := 0
	for i := 1; i < len(dataset.PatientGoals); i++ {
		if laterString(dataset.PatientGoals[i].StatusDate, dataset.PatientGoals[latest].StatusDate) {
			latest = i
		}
	}
	goal := dataset.PatientGoals[latest]
	dataset.LatestGoal = &goal
}

// buildTreatmentDirectives keeps the newest active consent per provision code
// and sorts it into Permits, Denials or Others by provision type.
func buildTreatmentDirectives(consents []*models.ClinicalResource, dataset *models.IntegratedDataset) {
	var order []string
	newest := make(map[string]*models.ClinicalResource)
	for _, resource := range consents {
		if resource.Consent.Status != fhir.ConsentStateActive {
			continue
		}
		group := consentGroup(resource.Consent)
		current, seen := newest[group]
		if !seen {
			order = append(order, group)
			newest[group] = resource
			continue
		}
		if laterString(resource.Consent.DateTime, current.Consent.DateTime) {
			newest[group] = resource
		}
	}

	for _, group := range order {
		resource := newest[group]
		consent := *resource.Consent
		view := models.TreatmentDirectiveView{
			Consent:     consent,
			Title:       consentTitle(&consent),
			SourceLabel: SourceLabel(resource.Source),
		}
		if consent.DateTime != nil {
			if parsed, ok := utils.ParseFhirDateTime(*consent.DateTime); ok {
				view.Date = &parsed
			}
		}

		var provisionType *fhir.ConsentProvisionType
		if consent.Provision != nil {
			provisionType = consent.Provision.Type
		}
		switch {
		case provisionType != nil && *provisionType == fhir.ConsentProvisionTypePermit:
			dataset.Permits = append(dataset.Permits, view)
		case provisionType != nil && *provisionType == fhir.ConsentProvisionTypeDeny:
			dataset.Denials = append(dataset.Denials, view)
		default:
			for _, extension := range consent.ModifierExtension {
				if extension.ValueString != nil {
					value := *extension.ValueString
					view.SpecificationOther = &value
					break
				}
			}
			dataset.Others = append(dataset.Others, view)
		}
	}
}

func consentGroup(consent *fhir.Consent) string {
	if coding := firstProvisionCoding(consent); coding != nil && coding.Code != nil {
		return *coding.Code
	}
	return constvars.AcpConsentGroupUnknown
}

func consentTitle(consent *fhir.Consent) string {
	if coding := firstProvisionCoding(consent); coding != nil && coding.Display != nil {
		return *coding.Display
	}
	if consent.Provision != nil && len(consent.Provision.Code) > 0 && consent.Provision.Code[0].Text != nil {
		return *consent.Provision.Code[0].Text
	}
	return constvars.AcpDisplayUnknown
}

func firstProvisionCoding(consent *fhir.Consent) *fhir.Coding {
	if consent.Provision == nil || len(consent.Provision.Code) == 0 || len(consent.Provision.Code[0].Coding) == 0 {
		return nil
	}
	return &consent.Provision.Code[0].Coding[0]
}

// buildLatestObservations keeps the most recent observation per ACP code, in
// order of first appearance.
func buildLatestObservations(dataset *models.IntegratedDataset) {
	var order []string
	latest := make(map[string]int)
	for i := range dataset.AllObservations {
		code, ok := firstMatchingCode(&dataset.AllObservations[i].Code, constvars.AcpObservationCodes)
		if !ok {
			continue
		}
		current, seen := latest[code]
		if !seen {
			order = append(order, code)
			latest[code] = i
			continue
		}
		if observationSortKey(&dataset.AllObservations[i]) > observationSortKey(&dataset.AllObservations[current]) {
			latest[code] = i
		}
	}

	for _, code := range order {
		dataset.LatestObservations = append(dataset.LatestObservations, dataset.AllObservations[latest[code]])
	}
}

func observationSortKey(observation *fhir.Observation) string {
	if observation.EffectiveDateTime != nil {
		return *observation.EffectiveDateTime
	}
	if observation.Issued != nil {
		return *observation.Issued
	}
	return ""
}

func buildEncounterViews(loaded *loadedResources, dataset *models.IntegratedDataset) {
	encounters := Deduplicate(loaded.encounters, resourceIdentifiers, resourceLastUpdated)
	linkedQuestionnaires := make(map[string]struct{})

	for _, encounterResource := range encounters {
		encounter := encounterResource.Encounter
		encounterID := stringValue(encounter.Id)

		var linked []*fhir.Procedure
		for _, procedureResource := range loaded.procedures {
			procedure := procedureResource.Procedure
			procedureID := stringValue(procedure.Id)
			if anyMatchesRef(encounter.ReasonReference, procedureID) || matchesRef(procedure.Encounter, encounterID) {
				linked = append(linked, procedure)
			}
		}
		if len(linked) == 0 {
			continue
		}

		procedure := linked[0]
		for _, candidate := range linked {
			if isAcpProcedure(candidate) {
				procedure = candidate
				break
			}
		}

		view := models.AcpEncounterView{
			Encounter:              *encounter,
			Procedure:              procedure,
			Date:                   encounterDate(encounter, procedure),
			SourceLabel:            SourceLabel(encounterResource.Source),
			Participants:           participants(encounter, procedure),
			QuestionnaireResponses: []fhir.QuestionnaireResponse{},
			Observations:           []fhir.Observation{},
		}

		for _, resource := range loaded.questionnaireResponses {
			if matchesRef(resource.QuestionnaireResponse.Encounter, encounterID) {
				view.QuestionnaireResponses = append(view.QuestionnaireResponses, *resource.QuestionnaireResponse)
				if resource.QuestionnaireResponse.Id != nil {
					linkedQuestionnaires[*resource.QuestionnaireResponse.Id] = struct{}{}
				}
			}
		}
		for _, observation := range dataset.AllObservations {
			if matchesRef(observation.Encounter, encounterID) {
				view.Observations = append(view.Observations, observation)
			}
		}

		dataset.AcpEncounters = append(dataset.AcpEncounters, view)
	}

	for _, resource := range loaded.questionnaireResponses {
		questionnaire := resource.QuestionnaireResponse
		if questionnaire.Id == nil {
			continue
		}
		if _, linked := linkedQuestionnaires[*questionnaire.Id]; linked {
			continue
		}
		dataset.UnlinkedQuestionnaires = append(dataset.UnlinkedQuestionnaires, *questionnaire)
	}
	sort.SliceStable(dataset.UnlinkedQuestionnaires, func(i, j int) bool {
		return laterString(dataset.UnlinkedQuestionnaires[i].Authored, dataset.UnlinkedQuestionnaires[j].Authored)
	})
}

func encounterDate(encounter *fhir.Encounter, procedure *fhir.Procedure) time.Time {
	if encounter.Period != nil && encounter.Period.Start != nil {
		if parsed, ok := utils.ParseFhirDateTime(*encounter.Period.Start); ok {
			return parsed
		}
	}
	if procedure != nil && procedure.PerformedDateTime != nil {
		if parsed, ok := utils.ParseFhirDateTime(*procedure.PerformedDateTime); ok {
			return parsed
		}
	}
	return time.Time{}
}

// participants lists every encounter participant, then procedure performers
// whose reference is not listed yet.
func participants(encounter *fhir.Encounter, procedure *fhir.Procedure) []models.Participant {
	list := []models.Participant{}
	for _, participant := range encounter.Participant {
		if participant.Individual == nil {
			continue
		}
		list = append(list, newParticipant(participant.Individual, nil))
	}

	if procedure == nil {
		return list
	}
	for _, performer := range procedure.Performer {
		actor := performer.Actor
		if actor.Reference != nil && containsReference(list, *actor.Reference) {
			continue
		}
		var role *string
		if performer.Function != nil && performer.Function.Text != nil {
			text := *performer.Function.Text
			role = &text
		}
		list = append(list, newParticipant(&actor, role))
	}
	return list
}

func newParticipant(reference *fhir.Reference, role *string) models.Participant {
	display := constvars.AcpDisplayUnknown
	if reference.Display != nil {
		display = *reference.Display
	}
	ref := stringValue(reference.Reference)
	return models.Participant{
		Display:        display,
		Reference:      ref,
		IsPractitioner: strings.Contains(ref, constvars.AcpPractitionerRefToken),
		Role:           role,
	}
}

func containsReference(list []models.Participant, reference string) bool {
	for _, participant := range list {
		if participant.Reference == reference {
			return true
		}
	}
	return false
}

func isAcpProcedure(procedure *fhir.Procedure) bool {
	if procedure == nil || procedure.Code == nil {
		return false
	}
	for _, coding := range procedure.Code.Coding {
		if coding.Code != nil && *coding.Code == constvars.AcpProcedureCode {
			return true
		}
	}
	return false
}

// matchesRef is true when the reference ends with targetID or contains "/targetID".
func matchesRef(reference *fhir.Reference, targetID string) bool {
	if reference == nil || reference.Reference == nil || targetID == "" || *reference.Reference == "" {
		return false
	}
	return strings.HasSuffix(*reference.Reference, targetID) || strings.Contains(*reference.Reference, "/"+targetID)
}

func anyMatchesRef(references []fhir.Reference, targetID string) bool {
	for i := range references {
		if matchesRef(&references[i], targetID) {
			return true
		}
	}
	return false
}

func hasAnyCode(concept *fhir.CodeableConcept, codes []string) bool {
	_, ok := firstMatchingCode(concept, codes)
	return ok
}

func firstMatchingCode(concept *fhir.CodeableConcept, codes []string) (string, bool) {
	if concept == nil {
		return "", false
	}
	for _, coding := range concept.Coding {
		if coding.Code == nil {
			continue
		}
		for _, code := range codes {
			if *coding.Code == code {
				return code, true
			}
		}
	}
	return "", false
}

// laterString orders FHIR date strings descending; nil sorts last.
func laterString(candidate, current *string) bool {
	if candidate == nil {
		return false
	}
	if current == nil {
		return true
	}
	return *candidate > *current
}

func resourceIdentifiers(resource *models.ClinicalResource) []models.Identifier {
	return resource.Identifiers
}

func resourceLastUpdated(resource *models.ClinicalResource) *time.Time {
	return resource.LastUpdated
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

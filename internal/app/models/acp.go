package models

import (
	"time"

	"github.com/samply/golang-fhir-models/fhir-models/fhir"
)

type Participant struct {
	Display        string  `json:"display"`
	Reference      string  `json:"reference"`
	IsPractitioner bool    `json:"is_practitioner"`
	Role           *string `json:"role,omitempty"`
}

type AcpEncounterView struct {
	Encounter              fhir.Encounter               `json:"encounter"`
	Procedure              *fhir.Procedure              `json:"procedure,omitempty"`
	Date                   time.Time                    `json:"date"`
	SourceLabel            string                       `json:"source_label"`
	Participants           []Participant                `json:"participants"`
	QuestionnaireResponses []fhir.QuestionnaireResponse `json:"questionnaire_responses"`
	Observations           []fhir.Observation           `json:"observations"`
}

type TreatmentDirectiveView struct {
	Consent            fhir.Consent `json:"consent"`
	Title              string       `json:"title"`
	Date               *time.Time   `json:"date,omitempty"`
	SpecificationOther *string      `json:"specification_other,omitempty"`
	SourceLabel        string       `json:"source_label"`
}

type PatientSummary struct {
	Name                  string `json:"name"`
	LegallyCapable        *bool  `json:"legally_capable,omitempty"`
	LegallyCapableText    string `json:"legally_capable_text"`
	LegallyCapableComment string `json:"legally_capable_comment"`
}

type IntegratedDataset struct {
	CurrentPatient         *fhir.Patient                `json:"current_patient,omitempty"`
	PatientSummary         *PatientSummary              `json:"patient_summary,omitempty"`
	AcpEncounters          []AcpEncounterView           `json:"acp_encounters"`
	UnlinkedQuestionnaires []fhir.QuestionnaireResponse `json:"unlinked_questionnaires"`
	PatientGoals           []fhir.Goal                  `json:"patient_goals"`
	LatestGoal             *fhir.Goal                   `json:"latest_goal,omitempty"`
	AllConsents            []fhir.Consent               `json:"all_consents"`
	Permits                []TreatmentDirectiveView     `json:"permits"`
	Denials                []TreatmentDirectiveView     `json:"denials"`
	Others                 []TreatmentDirectiveView     `json:"others"`
	AllObservations        []fhir.Observation           `json:"all_observations"`
	LatestObservations     []fhir.Observation           `json:"latest_observations"`
}

func NewIntegratedDataset() *IntegratedDataset {
	return &IntegratedDataset{
		AcpEncounters:          []AcpEncounterView{},
		UnlinkedQuestionnaires: []fhir.QuestionnaireResponse{},
		PatientGoals:           []fhir.Goal{},
		AllConsents:            []fhir.Consent{},
		Permits:                []TreatmentDirectiveView{},
		Denials:                []TreatmentDirectiveView{},
		Others:                 []TreatmentDirectiveView{},
		AllObservations:        []fhir.Observation{},
		LatestObservations:     []fhir.Observation{},
	}
}

// AcpSettings is the configuration snapshot handed to the executor and resolver.
type AcpSettings struct {
	ServerURL                string `json:"server_url"`
	ReferenceResolutionDepth int    `json:"reference_resolution_depth"`
	ResolverConcurrency      int    `json:"resolver_concurrency"`
}

package models

import (
	"errors"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/fhir_dto"
	"fauxhr-service/internal/pkg/utils"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/samply/golang-fhir-models/fhir-models/fhir"
)

// ResourceKind is the closed set of resource types the ACP engine reasons about.
type ResourceKind int

const (
	KindUnknown ResourceKind = iota
	KindPatient
	KindProcedure
	KindEncounter
	KindConsent
	KindGoal
	KindObservation
	KindQuestionnaireResponse
	KindPractitionerRole
	KindPractitioner
	KindOrganization
	KindRelatedPerson
	KindDeviceUseStatement
	KindDevice
	KindCommunication
	KindOperationOutcome
)

var resourceKindNames = map[ResourceKind]string{
	KindPatient:               constvars.ResourcePatient,
	KindProcedure:             constvars.ResourceProcedure,
	KindEncounter:             constvars.ResourceEncounter,
	KindConsent:               constvars.ResourceConsent,
	KindGoal:                  constvars.ResourceGoal,
	KindObservation:           constvars.ResourceObservation,
	KindQuestionnaireResponse: constvars.ResourceQuestionnaireResponse,
	KindPractitionerRole:      constvars.ResourcePractitionerRole,
	KindPractitioner:          constvars.ResourcePractitioner,
	KindOrganization:          constvars.ResourceOrganization,
	KindRelatedPerson:         constvars.ResourceRelatedPerson,
	KindDeviceUseStatement:    constvars.ResourceDeviceUseStatement,
	KindDevice:                constvars.ResourceDevice,
	KindCommunication:         constvars.ResourceCommunication,
	KindOperationOutcome:      constvars.ResourceOperationOutcome,
}

func (k ResourceKind) String() string {
	if name, ok := resourceKindNames[k]; ok {
		return name
	}
	return constvars.ResponseUnknown
}

func ParseResourceKind(resourceType string) ResourceKind {
	for kind, name := range resourceKindNames {
		if name == resourceType {
			return kind
		}
	}
	return KindUnknown
}

type Identifier struct {
	System string `json:"system"`
	Value  string `json:"value"`
}

// ClinicalResource is a decoded FHIR resource. Exactly one typed payload is set
// for the typed kinds; every kind keeps the original JSON in Raw.
type ClinicalResource struct {
	Kind         ResourceKind
	ResourceType string
	ID           string
	LastUpdated  *time.Time
	Source       string
	Identifiers  []Identifier
	Raw          json.RawMessage

	Patient               *fhir.Patient
	Procedure             *fhir.Procedure
	Encounter             *fhir.Encounter
	Consent               *fhir.Consent
	Goal                  *fhir.Goal
	Observation           *fhir.Observation
	QuestionnaireResponse *fhir.QuestionnaireResponse
	PractitionerRole      *fhir.PractitionerRole
	OperationOutcome      *fhir_dto.OperationOutcome
}

var ErrMissingResourceType = errors.New("resource has no resourceType")

// DecodeClinicalResource reads the common header and, for the typed kinds, the
// full payload. A payload that does not match its declared type is an error.
func DecodeClinicalResource(raw []byte) (*ClinicalResource, error) {
	var header fhir_dto.ResourceHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, err
	}
	if header.ResourceType == "" {
		return nil, ErrMissingResourceType
	}

	resource := &ClinicalResource{
		Kind:         ParseResourceKind(header.ResourceType),
		ResourceType: header.ResourceType,
		ID:           header.ID,
		Raw:          append(json.RawMessage(nil), raw...),
	}
	if header.Meta != nil {
		resource.Source = header.Meta.Source
		if parsed, ok := utils.ParseFhirDateTime(header.Meta.LastUpdated); ok {
			resource.LastUpdated = &parsed
		}
	}
	for _, identifier := range header.Identifier {
		resource.Identifiers = append(resource.Identifiers, Identifier{
			System: identifier.System,
			Value:  identifier.Value,
		})
	}

	var err error
	switch resource.Kind {
	case KindPatient:
		resource.Patient = &fhir.Patient{}
		err = json.Unmarshal(raw, resource.Patient)
	case KindProcedure:
		resource.Procedure = &fhir.Procedure{}
		err = json.Unmarshal(raw, resource.Procedure)
	case KindEncounter:
		resource.Encounter = &fhir.Encounter{}
		err = json.Unmarshal(raw, resource.Encounter)
	case KindConsent:
		resource.Consent = &fhir.Consent{}
		err = json.Unmarshal(raw, resource.Consent)
	case KindGoal:
		resource.Goal = &fhir.Goal{}
		err = json.Unmarshal(raw, resource.Goal)
	case KindObservation:
		resource.Observation = &fhir.Observation{}
		err = json.Unmarshal(raw, resource.Observation)
	case KindQuestionnaireResponse:
		resource.QuestionnaireResponse = &fhir.QuestionnaireResponse{}
		err = json.Unmarshal(raw, resource.QuestionnaireResponse)
	case KindPractitionerRole:
		resource.PractitionerRole = &fhir.PractitionerRole{}
		err = json.Unmarshal(raw, resource.PractitionerRole)
	case KindOperationOutcome:
		resource.OperationOutcome = &fhir_dto.OperationOutcome{}
		err = json.Unmarshal(raw, resource.OperationOutcome)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", header.ResourceType, err)
	}
	return resource, nil
}

// Reference returns the relative "Type/id" form.
func (r *ClinicalResource) Reference() string {
	return r.ResourceType + "/" + r.ID
}

// OperationOutcomeMessage renders the first issue as "{severity}: {diagnostics}".
func (r *ClinicalResource) OperationOutcomeMessage() string {
	if r.OperationOutcome == nil || len(r.OperationOutcome.Issue) == 0 {
		return constvars.AcpOperationOutcomeFallbackMessage
	}
	issue := r.OperationOutcome.Issue[0]
	if strings.TrimSpace(issue.Severity) == "" && strings.TrimSpace(issue.Diagnostics) == "" {
		return constvars.AcpOperationOutcomeFallbackMessage
	}
	return fmt.Sprintf("%s: %s", issue.Severity, issue.Diagnostics)
}

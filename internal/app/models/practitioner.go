package models

import "github.com/samply/golang-fhir-models/fhir-models/fhir"

// PractitionerContext is who is authoring and on behalf of which organization.
type PractitionerContext struct {
	Practitioner     *fhir.Practitioner     `json:"practitioner,omitempty"`
	PractitionerRole *fhir.PractitionerRole `json:"practitioner_role,omitempty"`
	OrganizationName string                 `json:"organization_name,omitempty"`
	OrganizationID   string                 `json:"organization_id,omitempty"`
}

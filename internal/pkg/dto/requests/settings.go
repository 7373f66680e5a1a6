package requests

import "github.com/goccy/go-json"

// UpdateSettings leaves nil fields untouched. An empty patient id clears the
// current patient.
type UpdateSettings struct {
	ServerURL                *string `json:"server_url" validate:"omitempty,http_url"`
	ReferenceResolutionDepth *int    `json:"reference_resolution_depth" validate:"omitempty,min=0"`
	PatientID                *string `json:"patient_id"`
}

// UpdatePractitioner takes FHIR JSON. The role may be omitted.
type UpdatePractitioner struct {
	Practitioner     json.RawMessage `json:"practitioner" validate:"required"`
	PractitionerRole json.RawMessage `json:"practitioner_role"`
}

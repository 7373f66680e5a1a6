package requests

import "github.com/goccy/go-json"

type RunAcpQueries struct {
	ServerURL string `json:"server_url" validate:"omitempty,http_url"`
	PatientID string `json:"-"`
}

type RunAcpQuery struct {
	ServerURL  string `json:"server_url" validate:"omitempty,http_url"`
	PatientID  string `json:"-"`
	QueryIndex int    `json:"-"`
}

// ResolveReferences takes resources as sent by a FHIR server. Depth zero
// keeps the configured depth.
type ResolveReferences struct {
	Resources []json.RawMessage `json:"resources" validate:"required,min=1"`
	Depth     int               `json:"depth" validate:"min=0"`
	ServerURL string            `json:"server_url" validate:"omitempty,http_url"`
}

type FindPatientByIdentifier struct {
	ServerURL string `validate:"omitempty,http_url"`
	System    string `validate:"required"`
	Value     string `validate:"required"`
}

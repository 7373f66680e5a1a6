package fhir_dto

type ValueSet struct {
	ResourceType string             `json:"resourceType"`
	ID           string             `json:"id,omitempty"`
	Meta         *Meta              `json:"meta,omitempty"`
	Url          string             `json:"url,omitempty"`
	Version      string             `json:"version,omitempty"`
	Name         string             `json:"name,omitempty"`
	Title        string             `json:"title,omitempty"`
	Status       string             `json:"status,omitempty"`
	Date         string             `json:"date,omitempty"`
	Publisher    string             `json:"publisher,omitempty"`
	Description  string             `json:"description,omitempty"`
	Compose      *ValueSetCompose   `json:"compose,omitempty"`
	Expansion    *ValueSetExpansion `json:"expansion,omitempty"`
}

type ValueSetCompose struct {
	Include []ValueSetInclude `json:"include,omitempty"`
	Exclude []ValueSetInclude `json:"exclude,omitempty"`
}

type ValueSetInclude struct {
	System   string            `json:"system,omitempty"`
	Version  string            `json:"version,omitempty"`
	Concept  []ValueSetConcept `json:"concept,omitempty"`
	ValueSet []string          `json:"valueSet,omitempty"`
}

type ValueSetConcept struct {
	Code    string `json:"code"`
	Display string `json:"display,omitempty"`
}

type ValueSetExpansion struct {
	Identifier string             `json:"identifier,omitempty"`
	Timestamp  string             `json:"timestamp,omitempty"`
	Total      *int               `json:"total,omitempty"`
	Contains   []ValueSetContains `json:"contains,omitempty"`
}

// ValueSetContains may nest further codes under an abstract grouper.
type ValueSetContains struct {
	System   string             `json:"system,omitempty"`
	Version  string             `json:"version,omitempty"`
	Abstract bool               `json:"abstract,omitempty"`
	Code     string             `json:"code,omitempty"`
	Display  string             `json:"display,omitempty"`
	Contains []ValueSetContains `json:"contains,omitempty"`
}

type CodeSystem struct {
	ResourceType string              `json:"resourceType"`
	ID           string              `json:"id,omitempty"`
	Meta         *Meta               `json:"meta,omitempty"`
	Url          string              `json:"url,omitempty"`
	Version      string              `json:"version,omitempty"`
	Name         string              `json:"name,omitempty"`
	Title        string              `json:"title,omitempty"`
	Status       string              `json:"status,omitempty"`
	Date         string              `json:"date,omitempty"`
	Publisher    string              `json:"publisher,omitempty"`
	Description  string              `json:"description,omitempty"`
	Content      string              `json:"content,omitempty"`
	Count        *int                `json:"count,omitempty"`
	Concept      []CodeSystemConcept `json:"concept,omitempty"`
}

type CodeSystemConcept struct {
	Code       string              `json:"code"`
	Display    string              `json:"display,omitempty"`
	Definition string              `json:"definition,omitempty"`
	Concept    []CodeSystemConcept `json:"concept,omitempty"`
}

package models

// Concept is one selectable code. Display falls back to the code.
type Concept struct {
	Code       string `json:"code"`
	Display    string `json:"display"`
	Definition string `json:"definition,omitempty"`
}

type BoundCode struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code"`
	Display string `json:"display"`
}

// ValueSetBinding maps an element path such as "ActivityDefinition.code" to
// the ValueSet offering its codes.
type ValueSetBinding struct {
	ElementPath string `json:"element_path"`
	ValueSetUrl string `json:"value_set_url"`
	DisplayName string `json:"display_name"`
}

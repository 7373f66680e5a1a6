package fhir_dto

type ActivityDefinition struct {
	ResourceType    string                 `json:"resourceType" validate:"required,eq=ActivityDefinition"`
	ID              string                 `json:"id,omitempty"`
	Meta            *Meta                  `json:"meta,omitempty"`
	Text            *Narrative             `json:"text,omitempty"`
	Extension       []Extension            `json:"extension,omitempty"`
	Url             string                 `json:"url,omitempty"`
	Identifier      []Identifier           `json:"identifier,omitempty"`
	Version         string                 `json:"version,omitempty"`
	Name            string                 `json:"name,omitempty"`
	Title           string                 `json:"title,omitempty"`
	Subtitle        string                 `json:"subtitle,omitempty"`
	Status          string                 `json:"status" validate:"required,crmi_status"`
	Experimental    bool                   `json:"experimental,omitempty"`
	Date            string                 `json:"date,omitempty"`
	Publisher       string                 `json:"publisher,omitempty"`
	Contact         []ContactDetail        `json:"contact,omitempty"`
	Description     string                 `json:"description,omitempty"`
	UseContext      []UsageContext         `json:"useContext,omitempty"`
	Jurisdiction    []CodeableConcept      `json:"jurisdiction,omitempty"`
	Purpose         string                 `json:"purpose,omitempty"`
	Usage           string                 `json:"usage,omitempty"`
	Copyright       string                 `json:"copyright,omitempty"`
	ApprovalDate    string                 `json:"approvalDate,omitempty"`
	LastReviewDate  string                 `json:"lastReviewDate,omitempty"`
	EffectivePeriod *Period                `json:"effectivePeriod,omitempty"`
	Topic           []CodeableConcept      `json:"topic,omitempty"`
	RelatedArtifact []RelatedArtifact      `json:"relatedArtifact,omitempty"`
	Library         []string               `json:"library,omitempty"`
	Kind            string                 `json:"kind,omitempty"`
	Profile         string                 `json:"profile,omitempty"`
	Code            *CodeableConcept       `json:"code,omitempty"`
	Intent          string                 `json:"intent,omitempty"`
	Priority        string                 `json:"priority,omitempty"`
	DoNotPerform    bool                   `json:"doNotPerform,omitempty"`
	Participant     []ActivityParticipant  `json:"participant,omitempty"`
	DynamicValue    []ActivityDynamicValue `json:"dynamicValue,omitempty"`
}

type ActivityParticipant struct {
	Type string           `json:"type"`
	Role *CodeableConcept `json:"role,omitempty"`
}

type ActivityDynamicValue struct {
	Path       string     `json:"path"`
	Expression Expression `json:"expression"`
}

type Expression struct {
	Description string `json:"description,omitempty"`
	Language    string `json:"language"`
	Expression  string `json:"expression,omitempty"`
}

package fhir_dto

// Artifact is the metadata shared by the authored knowledge artifacts.
type Artifact interface {
	GetResourceType() string
	GetID() string
	SetID(id string)
	// GetName is the computable name, or the title where the type has none.
	GetName() string
	GetStatus() string
	SetStatus(status string)
	GetDate() string
	SetDate(date string)
	GetUrl() string
	SetUrl(url string)
	GetExtensions() []Extension
	SetExtensions(extensions []Extension)
}

func (a *ActivityDefinition) GetResourceType() string { return a.ResourceType }
func (a *ActivityDefinition) GetID() string           { return a.ID }
func (a *ActivityDefinition) SetID(id string)         { a.ID = id }
func (a *ActivityDefinition) GetStatus() string       { return a.Status }
func (a *ActivityDefinition) SetStatus(status string) { a.Status = status }
func (a *ActivityDefinition) GetDate() string         { return a.Date }
func (a *ActivityDefinition) SetDate(date string)     { a.Date = date }
func (a *ActivityDefinition) GetUrl() string          { return a.Url }
func (a *ActivityDefinition) SetUrl(url string)       { a.Url = url }

func (a *ActivityDefinition) GetName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Title
}

func (a *ActivityDefinition) GetExtensions() []Extension           { return a.Extension }
func (a *ActivityDefinition) SetExtensions(extensions []Extension) { a.Extension = extensions }

func (c *ChargeItemDefinition) GetResourceType() string { return c.ResourceType }
func (c *ChargeItemDefinition) GetID() string           { return c.ID }
func (c *ChargeItemDefinition) SetID(id string)         { c.ID = id }
func (c *ChargeItemDefinition) GetName() string         { return c.Title }
func (c *ChargeItemDefinition) GetStatus() string       { return c.Status }
func (c *ChargeItemDefinition) SetStatus(status string) { c.Status = status }
func (c *ChargeItemDefinition) GetDate() string         { return c.Date }
func (c *ChargeItemDefinition) SetDate(date string)     { c.Date = date }
func (c *ChargeItemDefinition) GetUrl() string          { return c.Url }
func (c *ChargeItemDefinition) SetUrl(url string)       { c.Url = url }

func (c *ChargeItemDefinition) GetExtensions() []Extension           { return c.Extension }
func (c *ChargeItemDefinition) SetExtensions(extensions []Extension) { c.Extension = extensions }

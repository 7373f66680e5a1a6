package constvars

const (
	ResourcePatient               = "Patient"
	ResourceObservation           = "Observation"
	ResourceProcedure             = "Procedure"
	ResourceEncounter             = "Encounter"
	ResourceConsent               = "Consent"
	ResourceGoal                  = "Goal"
	ResourceQuestionnaireResponse = "QuestionnaireResponse"
	ResourcePractitionerRole      = "PractitionerRole"
	ResourcePractitioner          = "Practitioner"
	ResourceOrganization          = "Organization"
	ResourceRelatedPerson         = "RelatedPerson"
	ResourceDeviceUseStatement    = "DeviceUseStatement"
	ResourceDevice                = "Device"
	ResourceCommunication         = "Communication"
	ResourceOperationOutcome      = "OperationOutcome"
	ResourceBundle                = "Bundle"
	ResourceActivityDefinition    = "ActivityDefinition"
	ResourceChargeItemDefinition  = "ChargeItemDefinition"
	ResourceValueSet              = "ValueSet"
	ResourceCodeSystem            = "CodeSystem"
)

const (
	FhirBundleTypeSearchset = "searchset"
)

const (
	FhirSearchParamIdentifier = "identifier"
	FhirSearchParamTitle      = "title:contains"
	FhirSearchParamName       = "name:contains"
	FhirSearchParamUrl        = "url"
	FhirSearchParamStatus     = "status"
	FhirSearchParamSort       = "_sort"
	FhirSearchParamCount      = "_count"

	FhirSortLastUpdatedDesc = "-_lastUpdated"
	FhirDefaultPageSize     = "50"

	FhirOperationExpand = "$expand"
)

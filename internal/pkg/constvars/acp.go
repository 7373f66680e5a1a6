package constvars

const (
	SnomedSystem            = "http://snomed.info/sct"
	ConsentScopeSystem      = "http://terminology.hl7.org/CodeSystem/consentscope"
	ConsentCategorySystem   = "http://terminology.hl7.org/CodeSystem/consentcategorycodes"
	AcpIcdDeviceValueSet    = "https://api.iknl.nl/docs/pzp/r4/ValueSet/ACP-MedicalDeviceProductType-ICD"
	AcpQuestionnaireUrl     = "https://api.iknl.nl/docs/pzp/r4/Questionnaire/ACP-zib2020"
	AcpLegallyCapableExtUrl = "https://api.iknl.nl/docs/pzp/r4/StructureDefinition/ext-LegallyCapable-MedicalTreatmentDecisions"
)

const (
	AcpProcedureCode            = "713603004"
	AcpConsentScopeTreatment    = "treatment"
	AcpConsentScopeAdr          = "adr"
	AcpConsentCategoryTreatment = "129125009"
	AcpConsentCategoryAcd       = "acd"
)

var (
	AcpGoalCodes        = []string{"385987000", "1351964001", "713148004"}
	AcpObservationCodes = []string{"153851000146100", "395091006", "340171000146104", "247751003"}
)

const (
	AcpLegallyCapableUrl        = "legallyCapable"
	AcpLegallyCapableCommentUrl = "legallyCapableComment"

	AcpLegallyCapableText    = "Wilsbekwaam"
	AcpNotLegallyCapableText = "Niet wilsbekwaam"
	AcpLegallyCapableUnknown = "Status onbekend"
)

const (
	AcpDisplayUnknown                  = "Onbekend"
	AcpConsentGroupUnknown             = "Unknown"
	AcpPatientNameUnknown              = "Unknown"
	AcpPractitionerRefToken            = "Practitioner"
	AcpOperationOutcomeFallbackMessage = "Server returned an error (OperationOutcome)"
)

const (
	AcpReferenceResolutionMinDepth = 1
	AcpReferenceResolutionMaxDepth = 5

	AcpResolveQueryTitle        = "Fetching referenced resources"
	AcpResolveQueryResourceType = "RelatedPerson, PractitionerRole, Practitioner, etc."
)

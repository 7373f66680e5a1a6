package constvars

const (
	ResponseUnknown = "unknown"
)

const (
	GetAcpQueriesSuccessMessage        = "ACP queries retrieved successfully"
	RunAcpQueriesSuccessMessage        = "ACP queries executed"
	RunAcpQuerySuccessMessage          = "ACP query executed"
	ResolveReferencesSuccessMessage    = "references resolved"
	GetAcpOverviewSuccessMessage       = "ACP overview loaded successfully"
	FindPatientByIdentifierSuccessMsg  = "patient lookup completed"
	GetSettingsSuccessMessage          = "settings retrieved successfully"
	UpdateSettingsSuccessMessage       = "settings updated successfully"
	SearchArtifactsSuccessMessage      = "artifacts retrieved successfully"
	GetArtifactSuccessMessage          = "artifact retrieved successfully"
	CreateArtifactSuccessMessage       = "artifact created successfully"
	UpdateArtifactSuccessMessage       = "artifact updated successfully"
	DeleteArtifactSuccessMessage       = "artifact deleted successfully"
	GetStatusTransitionsSuccessMessage = "status transitions retrieved successfully"
	SearchValueSetsSuccessMessage      = "value sets retrieved successfully"
	GetValueSetSuccessMessage          = "value set retrieved successfully"
	ExpandValueSetSuccessMessage       = "value set expanded successfully"
	GetConceptsSuccessMessage          = "concepts retrieved successfully"
	ClearExpansionCacheSuccessMessage  = "expansion cache cleared"
	SearchCodeSystemsSuccessMessage    = "code systems retrieved successfully"
	GetCodeSystemSuccessMessage        = "code system retrieved successfully"
	GetBindingsSuccessMessage          = "value set bindings retrieved successfully"
	GetBindingSuccessMessage           = "value set binding retrieved successfully"
	SetBindingSuccessMessage           = "value set binding saved successfully"
	RemoveBindingSuccessMessage        = "value set binding removed successfully"
	GetBoundCodesSuccessMessage        = "bound codes retrieved successfully"
	GetPractitionerSuccessMessage      = "practitioner context retrieved successfully"
	UpdatePractitionerSuccessMessage   = "practitioner context updated successfully"
)

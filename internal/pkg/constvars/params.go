package constvars

const (
	URLParamPatientID    = "patient_id"
	URLParamQueryIndex   = "query_index"
	URLParamArtifactType = "artifact_type"
	URLParamArtifactID   = "artifact_id"
	URLParamStatus       = "status"
	URLParamValueSetID   = "valueset_id"
	URLParamCodeSystemID = "codesystem_id"
	URLParamElementPath  = "element_path"
)

const (
	QueryParamServerURL = "server_url"
	QueryParamSystem    = "system"
	QueryParamValue     = "value"
	QueryParamTitle     = "title"
	QueryParamStatus    = "status"
	QueryParamName      = "name"
	QueryParamUrl       = "url"
	QueryParamNoCache   = "no_cache"
)

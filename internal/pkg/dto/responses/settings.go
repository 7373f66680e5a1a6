package responses

type Settings struct {
	ServerURL                string `json:"server_url"`
	ReferenceResolutionDepth int    `json:"reference_resolution_depth"`
	ResolverConcurrency      int    `json:"resolver_concurrency"`
	PatientID                string `json:"patient_id,omitempty"`
}

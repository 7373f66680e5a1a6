package config

type InternalConfig struct {
	App   App
	FHIR  AppFHIR
	Cache AppCache
	ACP   AppACP
	CRMI  AppCRMI
}

// WriteAPIKey guards the mutating routes. Blank leaves them open.
type App struct {
	Env                       string
	Port                      string
	Version                   string
	Address                   string
	EndpointPrefix            string
	MaxRequests               int
	ShutdownTimeoutInSeconds  int
	MaxTimeRequestsPerSeconds int
	RequestTimeoutInSeconds   int
	WriteAPIKey               string
	APIKeyMaxRequests         int
	MaxRequestBodyInBytes     int64
}

// RequestTimeoutInSeconds bounds every single outbound FHIR call.
type AppFHIR struct {
	BaseUrl                     string
	RequestTimeoutInSeconds     int
	RateLimitPerSecond          int
	BreakerMaxFailures          int
	BreakerOpenTimeoutInSeconds int
}

// Backend is either "redis" or "memory".
type AppCache struct {
	Backend          string
	MemorySize       int
	KeyPrefix        string
	LockTTLInSeconds int
}

type AppACP struct {
	ReferenceResolutionDepth int
	ResolverConcurrency      int
}

type AppCRMI struct {
	CanonicalBaseUrl   string
	ExpansionCacheSize int
}

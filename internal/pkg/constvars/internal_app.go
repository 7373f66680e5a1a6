package constvars

import "time"

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_API_KEY_AUTH_KEY         ContextKey = "api_key_auth"
	CONTEXT_RAW_BODY                 ContextKey = "raw_body"
)

const (
	AppEnvDevelopment = "development"
	AppEnvProduction  = "production"
)

const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"

	CacheLockKeyFormat = "lock:%s"
)

const (
	FhirBreakerNameFormat = "fhir:%s"
)

const (
	ControllerDefaultTimeout = 10 * time.Second
	ControllerAcpRunTimeout  = 5 * time.Minute
)

const (
	// SettingsPractitionerContextKey holds the persisted practitioner, role and organization.
	SettingsPractitionerContextKey = "settings_PractitionerContext"

	DefaultOrganizationName = "Leiderdorp University Medical Center"
	DefaultOrganizationID   = "nl-core-organization-01"
)

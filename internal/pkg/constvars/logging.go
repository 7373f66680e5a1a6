package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingQueryKey          = "query"
	LoggingStatusCodeKey     = "status_code"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
	LoggingQueryParamsKey    = "query_params"
	LoggingPatientIDKey      = "patient_id"
	LoggingPractitionerIDKey = "practitioner_id"
	LoggingServerURLKey      = "server_url"
	LoggingResourceTypeKey   = "resource_type"
	LoggingResourceIDKey     = "resource_id"
	LoggingReferenceKey      = "reference"
	LoggingQueryTitleKey     = "query_title"
	LoggingQueryStatusKey    = "query_status"
	LoggingCacheKey          = "cache_key"
	LoggingPassKey           = "pass"
	LoggingDepthKey          = "depth"
	LoggingCountKey          = "count"
	LoggingValueSetKey       = "value_set"
	LoggingElementPathKey    = "element_path"
	LoggingBreakerNameKey    = "breaker_name"
	LoggingBreakerFromKey    = "breaker_from"
	LoggingBreakerToKey      = "breaker_to"

	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
)

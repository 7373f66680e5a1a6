package constvars

// Client messages
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientUpstreamUnavailable           = "the FHIR server is currently unavailable, please try again later"
	ErrClientResourceNotFound              = "the requested resource could not be found"
	ErrClientQueryNotFound                 = "the requested query does not exist"
	ErrClientUnsupportedArtifactType       = "the requested artifact type is not supported"
	ErrClientInvalidServerURL              = "the server url is not a valid absolute url"
	ErrClientMissingAPIKey                 = "this operation requires an api key"
	ErrClientInvalidAPIKey                 = "the api key is not valid"
	ErrClientBindingNotFound               = "no value set is bound to this element"
)

// Dev messages
const (
	ErrDevCannotParseJSON        = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON      = "cannot marshal data into JSON"
	ErrDevValidationFailed       = "request validation failed"
	ErrDevURLParamValidation     = "url param %s is not valid"
	ErrDevServerDeadlineExceeded = "server deadline exceeded"
	ErrDevInvalidServerURL       = "invalid FHIR server url"
	ErrDevMissingRequestID       = "request id not found in context"
	ErrDevReadRequestBody        = "failed to read request body"
	ErrDevMissingAPIKey          = "api key header is missing on a protected route"
	ErrDevInvalidAPIKey          = "api key header does not match the configured key"

	ErrDevCreateHTTPRequest = "failed to create HTTP request"
	ErrDevSendHTTPRequest   = "failed to send HTTP request"
	ErrDevReadResponseBody  = "failed to read HTTP response body"

	ErrDevFhirCreateResource  = "failed to create FHIR %s"
	ErrDevFhirUpdateResource  = "failed to update FHIR %s"
	ErrDevFhirDeleteResource  = "failed to delete FHIR %s"
	ErrDevFhirGetResource     = "failed to get FHIR %s"
	ErrDevFhirNoDataResource  = "no data found from FHIR %s"
	ErrDevFhirDecodeResponse  = "failed to decode FHIR %s response"
	ErrDevFhirCircuitOpen     = "FHIR circuit breaker for %s is open"
	ErrDevFhirRateLimiterWait = "FHIR rate limiter wait failed"

	ErrDevCacheGet             = "failed to read resource cache entry %s"
	ErrDevCacheSet             = "failed to write resource cache entry %s"
	ErrDevCacheKeys            = "failed to enumerate resource cache keys"
	ErrDevCacheLockNotAcquired = "could not acquire write lock for resource cache entry %s"

	ErrDevQueryIndexOutOfRange    = "query index %d is out of range"
	ErrDevUnsupportedArtifactType = "artifact type %s is not supported"
	ErrDevInvalidStatusTransition = "invalid artifact status transition"
	ErrDevBindingNotFound         = "no value set binding for element path %s"
	ErrDevTerminologyNotFound     = "neither $expand nor a read returned %s"
)

// Redis messages
const (
	ErrDevRedisSetData    = "failed to SET data into redis"
	ErrDevRedisGetData    = "failed to GET data from redis"
	ErrDevRedisDeleteData = "failed to DELETE data from redis"
	ErrDevRedisExists     = "failed to check EXISTS in redis"
	ErrDevRedisScan       = "failed to SCAN keys from redis"
	ErrDevRedisUnlock     = "failed to release redis lock"
)

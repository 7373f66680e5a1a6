package config

import (
	"fauxhr-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                       utils.GetEnvString("APP_ENV", "development"),
			Port:                      utils.GetEnvString("APP_PORT", "8080"),
			Version:                   utils.GetEnvString("APP_VERSION", "v1"),
			Address:                   utils.GetEnvString("APP_ADDRESS", "localhost"),
			EndpointPrefix:            utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:               utils.GetEnvInt("APP_MAX_REQUESTS", 100),
			ShutdownTimeoutInSeconds:  utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			MaxTimeRequestsPerSeconds: utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 60),
			RequestTimeoutInSeconds:   utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 120),
			WriteAPIKey:               utils.GetEnvString("APP_WRITE_API_KEY", ""),
			APIKeyMaxRequests:         utils.GetEnvInt("APP_API_KEY_MAX_REQUESTS", 1000),
			MaxRequestBodyInBytes:     int64(utils.GetEnvInt("APP_MAX_REQUEST_BODY_IN_BYTES", 10<<20)),
		},
		FHIR: AppFHIR{
			BaseUrl:                     utils.GetEnvString("FHIR_BASE_URL", "https://server.fire.ly"),
			RequestTimeoutInSeconds:     utils.GetEnvInt("FHIR_REQUEST_TIMEOUT_IN_SECONDS", 30),
			RateLimitPerSecond:          utils.GetEnvInt("FHIR_RATE_LIMIT_PER_SECOND", 10),
			BreakerMaxFailures:          utils.GetEnvInt("FHIR_BREAKER_MAX_FAILURES", 5),
			BreakerOpenTimeoutInSeconds: utils.GetEnvInt("FHIR_BREAKER_OPEN_TIMEOUT_IN_SECONDS", 30),
		},
		Cache: AppCache{
			Backend:          utils.GetEnvString("CACHE_BACKEND", "redis"),
			MemorySize:       utils.GetEnvInt("CACHE_MEMORY_SIZE", 10000),
			KeyPrefix:        utils.GetEnvString("CACHE_KEY_PREFIX", "fhir:"),
			LockTTLInSeconds: utils.GetEnvInt("CACHE_LOCK_TTL_IN_SECONDS", 10),
		},
		ACP: AppACP{
			ReferenceResolutionDepth: utils.GetEnvInt("ACP_REFERENCE_RESOLUTION_DEPTH", 2),
			ResolverConcurrency:      utils.GetEnvInt("ACP_RESOLVER_CONCURRENCY", 4),
		},
		CRMI: AppCRMI{
			CanonicalBaseUrl:   utils.GetEnvString("CRMI_CANONICAL_BASE_URL", "http://example.org/fhir"),
			ExpansionCacheSize: utils.GetEnvInt("CRMI_EXPANSION_CACHE_SIZE", 256),
		},
	}
}

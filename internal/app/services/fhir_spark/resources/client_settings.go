package resources

import (
	"fauxhr-service/internal/app/config"
	"fauxhr-service/internal/pkg/constvars"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type ClientSettings struct {
	RequestTimeout     time.Duration
	RateLimitPerSecond int
	BreakerMaxFailures int
	BreakerOpenTimeout time.Duration
	HTTPClient         *http.Client
}

func NewClientSettings(fhirConfig config.AppFHIR) ClientSettings {
	return ClientSettings{
		RequestTimeout:     time.Duration(fhirConfig.RequestTimeoutInSeconds) * time.Second,
		RateLimitPerSecond: fhirConfig.RateLimitPerSecond,
		BreakerMaxFailures: fhirConfig.BreakerMaxFailures,
		BreakerOpenTimeout: time.Duration(fhirConfig.BreakerOpenTimeoutInSeconds) * time.Second,
	}
}

func (s ClientSettings) httpClient() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return &http.Client{Timeout: s.RequestTimeout}
}

func newLimiter(settings ClientSettings) *rate.Limiter {
	if settings.RateLimitPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(settings.RateLimitPerSecond), settings.RateLimitPerSecond)
}

func newBreaker(baseUrl string, settings ClientSettings, logger *zap.Logger) *gobreaker.CircuitBreaker {
	maxFailures := uint32(5)
	if settings.BreakerMaxFailures > 0 {
		maxFailures = uint32(settings.BreakerMaxFailures)
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        fmt.Sprintf(constvars.FhirBreakerNameFormat, baseUrl),
		MaxRequests: 1,
		Timeout:     settings.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("FHIR circuit breaker state changed",
				zap.String(constvars.LoggingBreakerNameKey, name),
				zap.String(constvars.LoggingBreakerFromKey, from.String()),
				zap.String(constvars.LoggingBreakerToKey, to.String()),
			)
		},
	})
}

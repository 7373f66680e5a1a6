package routers

import (
	"fauxhr-service/internal/app/config"
	"fauxhr-service/internal/app/delivery/http/controllers"
	"fauxhr-service/internal/app/delivery/http/middlewares"
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	acpController *controllers.AcpController,
	settingsController *controllers.SettingsController,
	crmiController *controllers.CrmiController,
	terminologyController *controllers.TerminologyController,
) {

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-API-Key"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))
	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.APIKeyAuth)

	normalLimiter, apiKeyLimiter := middlewares.CreateRateLimiters()
	router.Use(middlewares.ConditionalRateLimit(normalLimiter, apiKeyLimiter))

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/acp", func(r chi.Router) {
				attachAcpRoutes(r, middlewares, acpController)
			})

			r.Route("/settings", func(r chi.Router) {
				attachSettingsRoutes(r, middlewares, settingsController)
			})

			r.Route("/crmi", func(r chi.Router) {
				r.Route("/terminology", func(r chi.Router) {
					attachTerminologyRoutes(r, middlewares, terminologyController)
				})
				r.Route("/bindings", func(r chi.Router) {
					attachBindingRoutes(r, middlewares, terminologyController)
				})
				attachCrmiRoutes(r, middlewares, crmiController)
			})
		})
	})
}

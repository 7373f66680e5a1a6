package routers

import (
	"fauxhr-service/internal/app/delivery/http/controllers"
	"fauxhr-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachSettingsRoutes(router chi.Router, middlewares *middlewares.Middlewares, settingsController *controllers.SettingsController) {
	router.Get("/", settingsController.GetSettings)
	router.With(middlewares.RequireWriteAPIKey).Put("/", settingsController.UpdateSettings)

	router.Get("/practitioner", settingsController.GetPractitioner)
	router.With(middlewares.RequireWriteAPIKey).Put("/practitioner", settingsController.UpdatePractitioner)
	router.With(middlewares.RequireWriteAPIKey).Delete("/practitioner", settingsController.ResetPractitioner)
}

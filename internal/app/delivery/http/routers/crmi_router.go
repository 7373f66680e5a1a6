package routers

import (
	"fauxhr-service/internal/app/delivery/http/controllers"
	"fauxhr-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachCrmiRoutes(router chi.Router, middlewares *middlewares.Middlewares, crmiController *controllers.CrmiController) {
	router.Get("/status-transitions/{status}", crmiController.GetStatusTransitions)

	router.Route("/{artifact_type}", func(r chi.Router) {
		r.Get("/", crmiController.SearchArtifacts)
		r.Get("/{artifact_id}", crmiController.FindArtifactByID)

		r.Group(func(r chi.Router) {
			r.Use(middlewares.RequireWriteAPIKey)
			r.With(middlewares.BodyBuffer).Post("/", crmiController.CreateArtifact)
			r.With(middlewares.BodyBuffer).Put("/{artifact_id}", crmiController.UpdateArtifact)
			r.Delete("/{artifact_id}", crmiController.DeleteArtifact)
		})
	})
}

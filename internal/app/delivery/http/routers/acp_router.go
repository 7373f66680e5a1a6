package routers

import (
	"fauxhr-service/internal/app/delivery/http/controllers"
	"fauxhr-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAcpRoutes(router chi.Router, middlewares *middlewares.Middlewares, acpController *controllers.AcpController) {
	router.Get("/patients/lookup", acpController.FindPatientByIdentifier)
	router.Route("/patients/{patient_id}", func(r chi.Router) {
		r.Get("/queries", acpController.GetQueries)
		r.Post("/queries/run", acpController.RunQueries)
		r.Post("/queries/{query_index}/run", acpController.RunQuery)
		r.Get("/overview", acpController.GetOverview)
	})
	router.Post("/references/resolve", acpController.ResolveReferences)
}

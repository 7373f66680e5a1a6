package routers

import (
	"fauxhr-service/internal/app/delivery/http/controllers"
	"fauxhr-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachTerminologyRoutes(router chi.Router, middlewares *middlewares.Middlewares, terminologyController *controllers.TerminologyController) {
	router.Get("/value-sets", terminologyController.SearchValueSets)
	router.Get("/value-sets/{valueset_id}", terminologyController.FindValueSet)
	router.Get("/expand", terminologyController.ExpandValueSet)
	router.Get("/concepts", terminologyController.GetValueSetConcepts)
	router.Get("/codes", terminologyController.GetCodesFromValueSet)
	router.With(middlewares.RequireWriteAPIKey).Delete("/expansions", terminologyController.ClearExpansionCache)

	router.Get("/code-systems", terminologyController.SearchCodeSystems)
	router.Get("/code-systems/{codesystem_id}", terminologyController.FindCodeSystem)
	router.Get("/code-systems/{codesystem_id}/concepts", terminologyController.GetCodeSystemConcepts)
}

func attachBindingRoutes(router chi.Router, middlewares *middlewares.Middlewares, terminologyController *controllers.TerminologyController) {
	router.Get("/", terminologyController.GetBindings)
	router.Get("/{element_path}", terminologyController.GetBinding)
	router.Get("/{element_path}/codes", terminologyController.GetBoundCodes)

	router.Group(func(r chi.Router) {
		r.Use(middlewares.RequireWriteAPIKey)
		r.With(middlewares.BodyBuffer).Put("/{element_path}", terminologyController.SetBinding)
		r.Delete("/{element_path}", terminologyController.RemoveBinding)
	})
}

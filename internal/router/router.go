package router

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bioedlabs/controlbench/internal/handler"
	mw "github.com/bioedlabs/controlbench/internal/middleware"
)

func New(
	log *zap.Logger,
	catalogH *handler.CatalogHandler,
	subH *handler.SubmissionHandler,
	adminH *handler.AdminHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Recovery(log))
	r.Use(mw.Logger(log))
	r.Use(mw.CORS)

	r.Route("/api/v1", func(r chi.Router) {
		// Question catalog
		r.Get("/questions", catalogH.List)
		r.Get("/questions/{questionId}", catalogH.Get)

		// Submissions
		r.Get("/submissions", subH.List)
		r.Post("/submissions", subH.Create)
		r.Delete("/submissions", subH.Delete)

		// Operator endpoints
		r.Get("/admin/diagnostics", adminH.Diagnostics)
		r.Get("/admin/cleanup", adminH.Analyze)
		r.Post("/admin/cleanup", adminH.Cleanup)
	})

	return r
}

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/card-binder/internal/api/handlers"
	"github.com/ramonehamilton/card-binder/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint for binder events
	s.router.Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		binderHandler := handlers.NewBinderHandler(s.ctrl)
		r.Route("/binder", func(r chi.Router) {
			r.Get("/", binderHandler.GetSpread)
			r.Post("/pages/next", binderHandler.NextPage)
			r.Post("/pages/prev", binderHandler.PrevPage)
			r.Post("/clear", binderHandler.Clear)

			r.Get("/cards", binderHandler.ListCards)
			r.Get("/cards/{index}", binderHandler.GetCard)
			r.Post("/cards/{index}/details", binderHandler.OpenDetails)

			r.Get("/details", binderHandler.GetDetails)
			r.Delete("/details", binderHandler.CloseDetails)

			r.Get("/search", binderHandler.GetSearch)
			r.Post("/search", binderHandler.Search)
			r.Post("/search/{result}/select", binderHandler.SelectSearchResult)

			r.Post("/reprints/{reprint}/select", binderHandler.SelectReprint)
		})

		systemHandler := handlers.NewSystemHandler(s.ctrl.ID(), s.wsHub, s.metrics)
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", systemHandler.GetStatus)
			r.Get("/version", systemHandler.GetVersion)
			r.Get("/metrics", systemHandler.GetMetrics)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]any{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

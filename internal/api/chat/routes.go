package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/chat", h.Chat)

	r.Route("/history/{session_id}", func(r chi.Router) {
		r.Get("/", h.GetHistory)
		r.Delete("/", h.ClearHistory)
		r.Get("/export", h.ExportHistory)
	})
}

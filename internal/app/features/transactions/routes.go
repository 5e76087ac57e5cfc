// internal/app/features/transactions/routes.go
package transactions

import "github.com/go-chi/chi/v5"

// Routes mounts the transaction routes under "/api/transactions".
// Listing and stats take an optional ?organization_id= scope.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/stats", h.ServeStats)
	r.Post("/", h.HandleCreate)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	return r
}

// internal/app/features/profile/routes.go
package profile

import "github.com/go-chi/chi/v5"

// Routes returns the /api/me subrouter.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeMe)
	r.Post("/sync", h.HandleSync)
	return r
}

// internal/app/features/invites/routes.go
package invites

import "github.com/go-chi/chi/v5"

// Routes mounts the invite routes under "/api/invites".
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/pending", h.ServePending)
	r.Post("/{id}/accept", h.HandleAccept)
	r.Post("/{id}/decline", h.HandleDecline)
	r.Post("/{id}/revoke", h.HandleRevoke)
	return r
}

// internal/app/features/organizations/routes.go
package organizations

import "github.com/go-chi/chi/v5"

// Routes mounts all organization routes under the base path
// (typically "/api/organizations" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)

	r.Route("/{id}", func(or chi.Router) {
		or.Get("/", h.ServeView)
		or.Put("/", h.HandleUpdate)
		or.Delete("/", h.HandleDelete)

		or.Get("/members", h.ServeMembers)
		or.Delete("/members/{userID}", h.HandleKick)

		// owner only; the service enforces it
		or.Get("/invites", h.ServeInvites)
		or.Post("/invites", h.HandleInvite)
	})

	return r
}

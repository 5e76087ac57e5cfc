package health

import "github.com/go-chi/chi/v5"

// Routes mounts readiness at / and liveness at /live.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	r.Get("/live", h.ServeLive)
	return r
}

package organizations

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marufbinsalim/walletree/internal/app/system/httpjson"
	"github.com/marufbinsalim/walletree/internal/app/system/timeouts"
	"github.com/marufbinsalim/walletree/internal/domain/models"
)

func orgIDParam(r *http.Request) (models.OrganizationID, error) {
	return httpjson.ParseID(chi.URLParam(r, "id"), "organization id", models.ParseOrganizationID)
}

// ServeView returns one organization with the caller's role in it.
//
// Route: GET /api/organizations/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Svc.GetOrganization(ctx, orgID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, toOrganization(m))
}

package organizations

import (
	"net/http"

	"github.com/marufbinsalim/walletree/internal/app/system/httpjson"
	"github.com/marufbinsalim/walletree/internal/app/system/timeouts"
)

// HandleDelete deletes an organization with its transactions and invites.
// Owner only.
//
// Route: DELETE /api/organizations/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	// the cascade touches three collections
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete organization")
	defer cancel()

	if err := h.Svc.DeleteOrganization(ctx, orgID); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package organizations

import (
	"context"
	"net/http"

	"github.com/marufbinsalim/walletree/internal/app/system/httpjson"
	"github.com/marufbinsalim/walletree/internal/app/system/timeouts"
)

// ServeList returns the organizations the caller owns or belongs to.
//
// Route: GET /api/organizations
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ms, err := h.Svc.ListUserOrganizations(ctx)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	out := make([]organizationResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toOrganization(m))
	}
	httpjson.OK(w, out)
}

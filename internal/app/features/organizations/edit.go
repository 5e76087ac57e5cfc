package organizations

import (
	"context"
	"net/http"

	"github.com/marufbinsalim/walletree/internal/app/ledger"
	"github.com/marufbinsalim/walletree/internal/app/system/httpjson"
	"github.com/marufbinsalim/walletree/internal/app/system/timeouts"
	"github.com/marufbinsalim/walletree/internal/app/system/validate"
	"github.com/marufbinsalim/walletree/internal/domain/models"
)

// HandleUpdate renames an organization. Owner only.
//
// Route: PUT /api/organizations/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	var req organizationRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	org, err := h.Svc.UpdateOrganization(ctx, orgID, req.Name, req.Description)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, toOrganization(ledger.Membership{Organization: org, Role: models.RoleOwner}))
}

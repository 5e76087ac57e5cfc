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

// HandleCreate creates an organization owned by the caller.
//
// Route: POST /api/organizations
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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

	org, err := h.Svc.CreateOrganization(ctx, req.Name, req.Description)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, toOrganization(ledger.Membership{Organization: org, Role: models.RoleOwner}))
}

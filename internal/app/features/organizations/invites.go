package organizations

import (
	"context"
	"net/http"

	"github.com/marufbinsalim/walletree/internal/app/system/httpjson"
	"github.com/marufbinsalim/walletree/internal/app/system/timeouts"
	"github.com/marufbinsalim/walletree/internal/app/system/validate"
	"github.com/marufbinsalim/walletree/internal/domain/models"
)

// ServeInvites lists every invite of an organization, newest first.
//
// Route: GET /api/organizations/{id}/invites
func (h *Handler) ServeInvites(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	invs, err := h.Svc.ListOrganizationInvites(ctx, orgID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, invs)
}

// HandleInvite invites an existing user by email.
//
// Route: POST /api/organizations/{id}/invites
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	var req inviteRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inv, err := h.Svc.CreateInvite(ctx, orgID, req.Email, models.Role(req.Role))
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, inv)
}

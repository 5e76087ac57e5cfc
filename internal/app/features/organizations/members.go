package organizations

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marufbinsalim/walletree/internal/app/system/httpjson"
	"github.com/marufbinsalim/walletree/internal/app/system/timeouts"
	"github.com/marufbinsalim/walletree/internal/domain/models"
)

// ServeMembers lists the owner and accepted members of an organization.
//
// Route: GET /api/organizations/{id}/members
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	members, err := h.Svc.ListMembers(ctx, orgID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMember(m))
	}
	httpjson.OK(w, out)
}

// HandleKick removes a member from an organization.
//
// Route: DELETE /api/organizations/{id}/members/{userID}
func (h *Handler) HandleKick(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	userID, err := httpjson.ParseID(chi.URLParam(r, "userID"), "user id", models.ParseUserID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Svc.KickMember(ctx, orgID, userID); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package invites

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marufbinsalim/walletree/internal/app/system/httpjson"
	"github.com/marufbinsalim/walletree/internal/app/system/timeouts"
	"github.com/marufbinsalim/walletree/internal/domain/models"
)

type pendingResponse struct {
	models.Invite
	OrganizationName string `json:"organization_name"`
}

// ServePending lists unexpired invites addressed to the caller. Anonymous
// callers get an empty list.
//
// Route: GET /api/invites/pending
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pending, err := h.Svc.ListPendingInvites(ctx)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	out := make([]pendingResponse, 0, len(pending))
	for _, p := range pending {
		out = append(out, pendingResponse{Invite: p.Invite, OrganizationName: p.OrganizationName})
	}
	httpjson.OK(w, out)
}

type transitionFunc func(ctx context.Context, id models.InviteID) (models.Invite, error)

func (h *Handler) serveTransition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	id, err := httpjson.ParseID(chi.URLParam(r, "id"), "invite id", models.ParseInviteID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	inv, err := fn(ctx, id)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, inv)
}

// HandleAccept accepts an invite addressed to the caller.
//
// Route: POST /api/invites/{id}/accept
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.serveTransition(w, r, h.Svc.AcceptInvite)
}

// HandleDecline declines an invite addressed to the caller.
//
// Route: POST /api/invites/{id}/decline
func (h *Handler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	h.serveTransition(w, r, h.Svc.DeclineInvite)
}

// HandleRevoke withdraws a pending invite. Organization owner only.
//
// Route: POST /api/invites/{id}/revoke
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	h.serveTransition(w, r, h.Svc.RevokeInvite)
}

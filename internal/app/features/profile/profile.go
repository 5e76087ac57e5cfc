package profile

import (
	"context"
	"net/http"

	"github.com/marufbinsalim/walletree/internal/app/ledger"
	"github.com/marufbinsalim/walletree/internal/app/system/httpjson"
	"github.com/marufbinsalim/walletree/internal/app/system/timeouts"
	"github.com/marufbinsalim/walletree/internal/app/system/validate"
	"github.com/marufbinsalim/walletree/internal/domain/models"
)

type userResponse struct {
	models.User
	DisplayName string `json:"display_name"`
}

func toResponse(u models.User) userResponse {
	return userResponse{User: u, DisplayName: u.DisplayName()}
}

type syncRequest struct {
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	ImageURL  string `json:"image_url" validate:"omitempty,url,max=2048"`
}

// ServeMe returns the caller's user record.
//
// Route: GET /api/me
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Svc.ResolveCurrentUser(ctx)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, toResponse(u))
}

// HandleSync creates or refreshes the caller's user record from the
// identity token. The body is optional.
//
// Route: POST /api/me/sync
func (h *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if r.ContentLength != 0 {
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, r, h.Log, err)
			return
		}
	}
	if err := validate.Struct(req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Svc.SyncUser(ctx, ledger.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, toResponse(u))
}

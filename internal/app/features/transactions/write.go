package transactions

import (
	"context"
	"net/http"

	"github.com/marufbinsalim/walletree/internal/app/system/httpjson"
	"github.com/marufbinsalim/walletree/internal/app/system/timeouts"
	"github.com/marufbinsalim/walletree/internal/app/system/validate"
)

// HandleCreate records a transaction for the caller.
//
// Route: POST /api/transactions
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
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

	tx, err := h.Svc.CreateTransaction(ctx, req.OrganizationID, req.input())
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, tx)
}

// HandleUpdate replaces the editable fields of a transaction. The scope of
// a transaction never changes.
//
// Route: PUT /api/transactions/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := txIDParam(r)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	var req updateRequest
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

	tx, err := h.Svc.UpdateTransaction(ctx, id, req.input())
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, tx)
}

// HandleDelete removes a transaction.
//
// Route: DELETE /api/transactions/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := txIDParam(r)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Svc.DeleteTransaction(ctx, id); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package transactions

import (
	"context"
	"net/http"

	"github.com/marufbinsalim/walletree/internal/app/system/httpjson"
	"github.com/marufbinsalim/walletree/internal/app/system/timeouts"
)

// ServeList returns transactions newest date first.
//
// Route: GET /api/transactions?organization_id=
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgScope(r)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	txs, err := h.Svc.ListTransactions(ctx, orgID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, txs)
}

// ServeStats returns the current month's totals. Amounts are decimal
// strings.
//
// Route: GET /api/transactions/stats?organization_id=
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgScope(r)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	st, err := h.Svc.MonthlyStats(ctx, orgID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, st)
}

// internal/app/features/transactions/handler.go
package transactions

import (
	"github.com/marufbinsalim/walletree/internal/app/ledger"
	"go.uber.org/zap"
)

// Handler serves personal and organization transactions.
type Handler struct {
	Svc *ledger.Service
	Log *zap.Logger
}

// NewHandler constructs a transactions Handler.
func NewHandler(svc *ledger.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

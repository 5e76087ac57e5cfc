// internal/app/features/profile/handler.go
package profile

import (
	"github.com/marufbinsalim/walletree/internal/app/ledger"
	"go.uber.org/zap"
)

// Handler serves the caller's own user record.
type Handler struct {
	Svc *ledger.Service
	Log *zap.Logger
}

// NewHandler constructs a profile Handler.
func NewHandler(svc *ledger.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// internal/app/features/organizations/handler.go
package organizations

import (
	"github.com/marufbinsalim/walletree/internal/app/ledger"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for organizations, their
// members and the invites they send.
type Handler struct {
	Svc *ledger.Service
	Log *zap.Logger
}

// NewHandler constructs a new organizations handler.
func NewHandler(svc *ledger.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Svc: svc,
		Log: logger,
	}
}

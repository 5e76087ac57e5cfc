// internal/app/features/invites/handler.go
package invites

import (
	"github.com/marufbinsalim/walletree/internal/app/ledger"
	"go.uber.org/zap"
)

// Handler serves the invitee side of the invite lifecycle plus revoke.
type Handler struct {
	Svc *ledger.Service
	Log *zap.Logger
}

// NewHandler constructs an invites Handler.
func NewHandler(svc *ledger.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

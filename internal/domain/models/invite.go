// internal/domain/models/invite.go
package models

import "time"

// InviteStatus is the lifecycle state of an Invite.
//
//	pending  -> accepted | declined | revoked
//	accepted -> removed
//
// declined, revoked and removed are terminal.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
	InviteRevoked  InviteStatus = "revoked"
	InviteRemoved  InviteStatus = "removed"
)

// DefaultInviteTTL is how long a new invite stays acceptable.
const DefaultInviteTTL = 7 * 24 * time.Hour

// CanTransition reports whether moving from s to next is allowed.
func (s InviteStatus) CanTransition(next InviteStatus) bool {
	switch s {
	case InvitePending:
		return next == InviteAccepted || next == InviteDeclined || next == InviteRevoked
	case InviteAccepted:
		return next == InviteRemoved
	default:
		return false
	}
}

// Terminal reports whether no further transition is possible from s.
func (s InviteStatus) Terminal() bool {
	return s == InviteDeclined || s == InviteRevoked || s == InviteRemoved
}

// Invite governs one (organization, email) relationship.
// Exactly one invite per pair is kept; a new invite replaces older ones.
type Invite struct {
	ID             InviteID       `json:"id"`
	OrganizationID OrganizationID `json:"organization_id"`
	Email          string         `json:"email"`
	Role           Role           `json:"role"`
	Status         InviteStatus   `json:"status"`
	InvitedBy      UserID         `json:"invited_by"`
	InvitedAt      time.Time      `json:"invited_at"`
	ExpiresAt      time.Time      `json:"expires_at"`
}

// Expired reports whether the invite can no longer be accepted at now.
func (i Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

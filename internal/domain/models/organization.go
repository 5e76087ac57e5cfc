// internal/domain/models/organization.go
package models

import "time"

// Organization groups shared transactions under a single owner.
// OwnerID is set at creation and never changes.
type Organization struct {
	ID          OrganizationID `json:"id"`
	Name        string         `json:"name"`
	NameCI      string         `json:"-"` // folded for sorting
	Description string         `json:"description,omitempty"`
	OwnerID     UserID         `json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Role is a user's relation to an organization.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleMember
}

// Package orgpolicy answers membership and authorization questions for
// organizations.
//
// Membership is never stored on the user. A user belongs to an organization
// when they own it, or when an invite for their email in that organization
// has status accepted.
//
// Authorization rules:
//   - Owner: may read and mutate the organization, invite, revoke, kick
//   - Accepted member: may read the organization, its members and its
//     transactions, write transactions, and kick other members
//   - Anyone else: NotAuthorized on every organization-scoped call
package orgpolicy

import (
	"context"
	"errors"
	"sort"

	"github.com/marufbinsalim/walletree/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// OrgReader is the organization lookup the policy needs.
type OrgReader interface {
	GetByID(ctx context.Context, id models.OrganizationID) (models.Organization, error)
}

// InviteReader is the invite lookup the policy needs.
type InviteReader interface {
	FindByOrgEmailStatus(ctx context.Context, org models.OrganizationID, email string, status models.InviteStatus) (models.Invite, error)
	ListByOrgStatus(ctx context.Context, org models.OrganizationID, status models.InviteStatus) ([]models.Invite, error)
}

// UserReader is the user lookup the policy needs.
type UserReader interface {
	GetByID(ctx context.Context, id models.UserID) (models.User, error)
	GetByEmails(ctx context.Context, emails []string) ([]models.User, error)
}

// Policy composes the organization and invite stores.
type Policy struct {
	orgs    OrgReader
	invites InviteReader
	users   UserReader
}

func New(orgs OrgReader, invites InviteReader, users UserReader) *Policy {
	return &Policy{orgs: orgs, invites: invites, users: users}
}

// Access describes what the caller is to one organization.
type Access struct {
	Organization models.Organization
	Owner        bool
	Member       bool
}

// Authorized is Owner || Member.
func (a Access) Authorized() bool {
	return a.Owner || a.Member
}

// Role is the caller's role label, or "" when not authorized.
func (a Access) Role() models.Role {
	switch {
	case a.Owner:
		return models.RoleOwner
	case a.Member:
		return models.RoleMember
	default:
		return ""
	}
}

// IsOwner reports whether u owns org.
func IsOwner(org models.Organization, u models.User) bool {
	return org.OwnerID == u.ID
}

// IsAcceptedMember reports whether an accepted invite exists for u's email in org.
func (p *Policy) IsAcceptedMember(ctx context.Context, u models.User, org models.OrganizationID) (bool, error) {
	_, err := p.invites.FindByOrgEmailStatus(ctx, org, u.Email, models.InviteAccepted)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Resolve loads the organization and classifies u against it. It returns
// mongo.ErrNoDocuments when the organization does not exist.
func (p *Policy) Resolve(ctx context.Context, u models.User, orgID models.OrganizationID) (Access, error) {
	org, err := p.orgs.GetByID(ctx, orgID)
	if err != nil {
		return Access{}, err
	}
	a := Access{Organization: org, Owner: IsOwner(org, u)}
	if a.Owner {
		return a, nil
	}
	a.Member, err = p.IsAcceptedMember(ctx, u, orgID)
	if err != nil {
		return Access{}, err
	}
	return a, nil
}

// Member is one entry of an organization's effective membership.
type Member struct {
	User models.User
	Role models.Role
}

// EffectiveMembers lists the owner first, then every user whose email has an
// accepted invite, deduplicated by user id and sorted by email.
func (p *Policy) EffectiveMembers(ctx context.Context, org models.Organization) ([]Member, error) {
	out := []Member{}
	seen := map[models.UserID]bool{}

	owner, err := p.users.GetByID(ctx, org.OwnerID)
	switch {
	case err == nil:
		out = append(out, Member{User: owner, Role: models.RoleOwner})
		seen[owner.ID] = true
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, err
	}

	accepted, err := p.invites.ListByOrgStatus(ctx, org.ID, models.InviteAccepted)
	if err != nil {
		return nil, err
	}
	if len(accepted) == 0 {
		return out, nil
	}
	emails := make([]string, 0, len(accepted))
	for _, inv := range accepted {
		emails = append(emails, inv.Email)
	}
	users, err := p.users.GetByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })

	for _, u := range users {
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		out = append(out, Member{User: u, Role: models.RoleMember})
	}
	return out, nil
}

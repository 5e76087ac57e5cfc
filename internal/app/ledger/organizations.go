package ledger

import (
	"context"
	"fmt"

	"github.com/marufbinsalim/walletree/internal/app/policy/orgpolicy"
	"github.com/marufbinsalim/walletree/internal/app/system/apperr"
	"github.com/marufbinsalim/walletree/internal/app/system/htmlsanitize"
	"github.com/marufbinsalim/walletree/internal/app/system/normalize"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"go.uber.org/zap"
)

// Membership is an organization together with the caller's role in it.
type Membership struct {
	Organization models.Organization
	Role         models.Role
}

func cleanOrgFields(name, description string) (string, string, error) {
	name = normalize.Name(htmlsanitize.PlainText(name))
	if name == "" {
		return "", "", apperr.Invalid("name is required")
	}
	return name, htmlsanitize.PlainText(description), nil
}

// CreateOrganization creates an organization owned by the caller.
func (s *Service) CreateOrganization(ctx context.Context, name, description string) (models.Organization, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return models.Organization{}, err
	}
	name, description, err = cleanOrgFields(name, description)
	if err != nil {
		return models.Organization{}, err
	}

	now := s.now().UTC()
	org, err := s.orgs.Create(ctx, models.Organization{
		Name:        name,
		Description: description,
		OwnerID:     u.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return models.Organization{}, fmt.Errorf("create organization: %w", err)
	}

	s.log.Info("organization created",
		zap.String("organization_id", org.ID.Hex()),
		zap.String("owner_id", u.ID.Hex()))
	return org, nil
}

// GetOrganization returns the organization if the caller is owner or member.
func (s *Service) GetOrganization(ctx context.Context, orgID models.OrganizationID) (Membership, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return Membership{}, err
	}
	a, err := s.authorize(ctx, u, orgID)
	if err != nil {
		return Membership{}, err
	}
	return Membership{Organization: a.Organization, Role: a.Role()}, nil
}

// UpdateOrganization renames and re-describes an organization. Owner only.
func (s *Service) UpdateOrganization(ctx context.Context, orgID models.OrganizationID, name, description string) (models.Organization, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return models.Organization{}, err
	}
	org, err := s.requireOwner(ctx, u, orgID)
	if err != nil {
		return models.Organization{}, err
	}
	name, description, err = cleanOrgFields(name, description)
	if err != nil {
		return models.Organization{}, err
	}

	org.Name = name
	org.Description = description
	org.UpdatedAt = s.now().UTC()
	if err := s.orgs.Update(ctx, org); err != nil {
		if isNotFound(err) {
			return models.Organization{}, apperr.ErrNotAuthorized
		}
		return models.Organization{}, fmt.Errorf("update organization: %w", err)
	}
	return org, nil
}

// DeleteOrganization removes the organization with its transactions and
// invites in one store transaction. Owner only.
func (s *Service) DeleteOrganization(ctx context.Context, orgID models.OrganizationID) error {
	u, err := s.currentUser(ctx)
	if err != nil {
		return err
	}
	if _, err := s.requireOwner(ctx, u, orgID); err != nil {
		return err
	}

	var txCount, invCount int64
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if txCount, err = s.txs.DeleteByOrg(ctx, orgID); err != nil {
			return fmt.Errorf("delete transactions: %w", err)
		}
		if invCount, err = s.invites.DeleteByOrg(ctx, orgID); err != nil {
			return fmt.Errorf("delete invites: %w", err)
		}
		if _, err = s.orgs.Delete(ctx, orgID); err != nil {
			return fmt.Errorf("delete organization: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("organization deleted",
		zap.String("organization_id", orgID.Hex()),
		zap.Int64("transactions", txCount),
		zap.Int64("invites", invCount))
	return nil
}

// ListUserOrganizations returns owned organizations first, then those the
// caller joined through an accepted invite. Unknown callers get nothing.
func (s *Service) ListUserOrganizations(ctx context.Context) ([]Membership, error) {
	u, ok, err := s.optionalUser(ctx)
	if err != nil || !ok {
		return []Membership{}, err
	}

	owned, err := s.orgs.ListByOwner(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("list owned organizations: %w", err)
	}
	out := make([]Membership, 0, len(owned))
	seen := make(map[models.OrganizationID]bool, len(owned))
	for _, org := range owned {
		seen[org.ID] = true
		out = append(out, Membership{Organization: org, Role: models.RoleOwner})
	}

	accepted, err := s.invites.ListByEmailStatus(ctx, u.Email, models.InviteAccepted)
	if err != nil {
		return nil, fmt.Errorf("list accepted invites: %w", err)
	}
	var joinedIDs []models.OrganizationID
	for _, inv := range accepted {
		if !seen[inv.OrganizationID] {
			seen[inv.OrganizationID] = true
			joinedIDs = append(joinedIDs, inv.OrganizationID)
		}
	}
	joined, err := s.orgs.GetByIDs(ctx, joinedIDs)
	if err != nil {
		return nil, fmt.Errorf("load joined organizations: %w", err)
	}
	for _, org := range joined {
		out = append(out, Membership{Organization: org, Role: models.RoleMember})
	}
	return out, nil
}

// ListMembers returns the effective members of an organization.
func (s *Service) ListMembers(ctx context.Context, orgID models.OrganizationID) ([]orgpolicy.Member, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	a, err := s.authorize(ctx, u, orgID)
	if err != nil {
		return nil, err
	}
	members, err := s.policy.EffectiveMembers(ctx, a.Organization)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

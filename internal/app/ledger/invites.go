package ledger

import (
	"context"
	"fmt"

	"github.com/marufbinsalim/walletree/internal/app/system/apperr"
	"github.com/marufbinsalim/walletree/internal/app/system/metrics"
	"github.com/marufbinsalim/walletree/internal/app/system/normalize"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"go.uber.org/zap"
)

// PendingInvite is an invite addressed to the caller with the name of the
// organization it is for.
type PendingInvite struct {
	Invite           models.Invite
	OrganizationName string
}

// CreateInvite invites an existing user to an organization. Any earlier
// invite for the same organization and email is removed first, whatever
// its status.
func (s *Service) CreateInvite(ctx context.Context, orgID models.OrganizationID, email string, role models.Role) (models.Invite, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return models.Invite{}, err
	}
	if _, err := s.requireOwner(ctx, u, orgID); err != nil {
		return models.Invite{}, err
	}

	email = normalize.Email(email)
	if email == "" {
		return models.Invite{}, apperr.Invalid("email is required")
	}
	role = models.Role(normalize.Role(string(role)))
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return models.Invite{}, apperr.Invalid("role must be owner or member")
	}

	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if isNotFound(err) {
			return models.Invite{}, apperr.ErrUserDoesNotExist
		}
		return models.Invite{}, fmt.Errorf("load invitee: %w", err)
	}
	if email == u.Email {
		return models.Invite{}, apperr.ErrCannotInviteSelf
	}

	now := s.now().UTC()
	var inv models.Invite
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.invites.DeleteByOrgEmail(ctx, orgID, email); err != nil {
			return fmt.Errorf("delete prior invites: %w", err)
		}
		var err error
		inv, err = s.invites.Create(ctx, models.Invite{
			OrganizationID: orgID,
			Email:          email,
			Role:           role,
			Status:         models.InvitePending,
			InvitedBy:      u.ID,
			InvitedAt:      now,
			ExpiresAt:      now.Add(s.inviteTTL),
		})
		if err != nil {
			return fmt.Errorf("create invite: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Invite{}, err
	}

	metrics.ObserveInviteTransition(string(models.InvitePending))
	s.log.Info("invite created",
		zap.String("invite_id", inv.ID.Hex()),
		zap.String("organization_id", orgID.Hex()),
		zap.String("role", string(role)))
	return inv, nil
}

// loadInviteForCaller applies the checks shared by accept and decline.
func (s *Service) loadInviteForCaller(ctx context.Context, id models.InviteID) (models.Invite, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return models.Invite{}, err
	}
	inv, err := s.invites.GetByID(ctx, id)
	if isNotFound(err) {
		return models.Invite{}, apperr.NotFound("Invite")
	}
	if err != nil {
		return models.Invite{}, fmt.Errorf("load invite: %w", err)
	}
	if inv.Status != models.InvitePending {
		return models.Invite{}, apperr.ErrInviteNotPending
	}
	if inv.Email != u.Email {
		return models.Invite{}, apperr.ErrInviteNotForUser
	}
	return inv, nil
}

// transition moves an invite between statuses. Losing a race to another
// writer is reported as errNotCurrent.
func (s *Service) transition(ctx context.Context, inv models.Invite, to models.InviteStatus, errNotCurrent error) (models.Invite, error) {
	if !inv.Status.CanTransition(to) {
		return models.Invite{}, errNotCurrent
	}
	if err := s.invites.SetStatus(ctx, inv.ID, inv.Status, to); err != nil {
		if isNotFound(err) {
			return models.Invite{}, errNotCurrent
		}
		return models.Invite{}, fmt.Errorf("set invite status: %w", err)
	}
	from := inv.Status
	inv.Status = to

	metrics.ObserveInviteTransition(string(to))
	s.log.Info("invite status changed",
		zap.String("invite_id", inv.ID.Hex()),
		zap.String("organization_id", inv.OrganizationID.Hex()),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return inv, nil
}

// AcceptInvite makes the caller a member of the invite's organization.
func (s *Service) AcceptInvite(ctx context.Context, id models.InviteID) (models.Invite, error) {
	inv, err := s.loadInviteForCaller(ctx, id)
	if err != nil {
		return models.Invite{}, err
	}
	if inv.Expired(s.now()) {
		return models.Invite{}, apperr.ErrInviteExpired
	}
	return s.transition(ctx, inv, models.InviteAccepted, apperr.ErrInviteNotPending)
}

// DeclineInvite refuses an invite. Expired invites may still be declined.
func (s *Service) DeclineInvite(ctx context.Context, id models.InviteID) (models.Invite, error) {
	inv, err := s.loadInviteForCaller(ctx, id)
	if err != nil {
		return models.Invite{}, err
	}
	return s.transition(ctx, inv, models.InviteDeclined, apperr.ErrInviteNotPending)
}

// RevokeInvite withdraws a pending invite. Owner only.
func (s *Service) RevokeInvite(ctx context.Context, id models.InviteID) (models.Invite, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return models.Invite{}, err
	}
	inv, err := s.invites.GetByID(ctx, id)
	if isNotFound(err) {
		return models.Invite{}, apperr.NotFound("Invite")
	}
	if err != nil {
		return models.Invite{}, fmt.Errorf("load invite: %w", err)
	}
	if _, err := s.requireOwner(ctx, u, inv.OrganizationID); err != nil {
		return models.Invite{}, err
	}
	if inv.Status != models.InvitePending {
		return models.Invite{}, apperr.ErrInviteNotPending
	}
	return s.transition(ctx, inv, models.InviteRevoked, apperr.ErrInviteNotPending)
}

// KickMember ends a member's accepted invite. The owner has no invite and
// so can never be kicked.
func (s *Service) KickMember(ctx context.Context, orgID models.OrganizationID, userID models.UserID) error {
	u, err := s.currentUser(ctx)
	if err != nil {
		return err
	}
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		if isNotFound(err) {
			return apperr.NotFound("Organization")
		}
		return fmt.Errorf("load organization: %w", err)
	}
	if _, err := s.authorize(ctx, u, orgID); err != nil {
		return err
	}
	if userID == u.ID {
		return apperr.ErrCannotKickSelf
	}

	target, err := s.users.GetByID(ctx, userID)
	if isNotFound(err) {
		return apperr.NotFound("User")
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	inv, err := s.invites.FindByOrgEmailStatus(ctx, orgID, target.Email, models.InviteAccepted)
	if isNotFound(err) {
		return apperr.ErrUserNotMember
	}
	if err != nil {
		return fmt.Errorf("load membership: %w", err)
	}

	_, err = s.transition(ctx, inv, models.InviteRemoved, apperr.ErrUserNotMember)
	return err
}

// ListOrganizationInvites returns every invite of an organization, newest
// first. Owner only.
func (s *Service) ListOrganizationInvites(ctx context.Context, orgID models.OrganizationID) ([]models.Invite, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireOwner(ctx, u, orgID); err != nil {
		return nil, err
	}
	invs, err := s.invites.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	return invs, nil
}

// ListPendingInvites returns the caller's unexpired pending invites.
// Anonymous and unknown callers get an empty list.
func (s *Service) ListPendingInvites(ctx context.Context) ([]PendingInvite, error) {
	u, ok, err := s.optionalUser(ctx)
	if err != nil || !ok {
		return []PendingInvite{}, err
	}

	invs, err := s.invites.ListByEmailStatus(ctx, u.Email, models.InvitePending)
	if err != nil {
		return nil, fmt.Errorf("list pending invites: %w", err)
	}
	now := s.now()
	live := make([]models.Invite, 0, len(invs))
	ids := make([]models.OrganizationID, 0, len(invs))
	for _, inv := range invs {
		if inv.ExpiresAt.After(now) {
			live = append(live, inv)
			ids = append(ids, inv.OrganizationID)
		}
	}
	if len(live) == 0 {
		return []PendingInvite{}, nil
	}

	orgs, err := s.orgs.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load organizations: %w", err)
	}
	names := make(map[models.OrganizationID]string, len(orgs))
	for _, org := range orgs {
		names[org.ID] = org.Name
	}

	out := make([]PendingInvite, 0, len(live))
	for _, inv := range live {
		name, ok := names[inv.OrganizationID]
		if !ok {
			continue
		}
		out = append(out, PendingInvite{Invite: inv, OrganizationName: name})
	}
	return out, nil
}

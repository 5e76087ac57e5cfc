// Package ledger implements the walletree operations: identity resolution,
// organizations, the invite lifecycle and transactions. Every method reads
// the caller from the identity on ctx.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marufbinsalim/walletree/internal/app/policy/orgpolicy"
	"github.com/marufbinsalim/walletree/internal/app/system/apperr"
	"github.com/marufbinsalim/walletree/internal/app/system/identity"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Options tune a Service. Zero values pick defaults.
type Options struct {
	Log       *zap.Logger
	Location  *time.Location // month boundaries for stats; default UTC
	InviteTTL time.Duration  // default models.DefaultInviteTTL
	Now       func() time.Time
}

type Service struct {
	users   UserRepo
	orgs    OrganizationRepo
	invites InviteRepo
	txs     TransactionRepo
	tx      TxRunner
	policy  *orgpolicy.Policy

	log       *zap.Logger
	loc       *time.Location
	inviteTTL time.Duration
	now       func() time.Time
}

func New(r Repos, opts Options) *Service {
	s := &Service{
		users:     r.Users,
		orgs:      r.Organizations,
		invites:   r.Invites,
		txs:       r.Transactions,
		tx:        r.Tx,
		policy:    orgpolicy.New(r.Organizations, r.Invites, r.Users),
		log:       opts.Log,
		loc:       opts.Location,
		inviteTTL: opts.InviteTTL,
		now:       opts.Now,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.inviteTTL <= 0 {
		s.inviteTTL = models.DefaultInviteTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func isNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// currentUser resolves the caller or fails with Unauthenticated / UserNotFound.
func (s *Service) currentUser(ctx context.Context) (models.User, error) {
	id, ok := identity.FromContext(ctx)
	if !ok {
		return models.User{}, apperr.ErrUnauthenticated
	}
	u, err := s.users.GetBySubject(ctx, id.Subject)
	if isNotFound(err) {
		return models.User{}, apperr.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// optionalUser is currentUser for read-only listings that answer with an
// empty result instead of failing when the caller is unknown.
func (s *Service) optionalUser(ctx context.Context) (models.User, bool, error) {
	u, err := s.currentUser(ctx)
	if apperr.IsCode(err, apperr.CodeUnauthenticated) || apperr.IsCode(err, apperr.CodeUserNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return u, true, nil
}

// authorize requires owner-or-accepted-member. A missing organization is
// reported as NotAuthorized so ids cannot be probed.
func (s *Service) authorize(ctx context.Context, u models.User, orgID models.OrganizationID) (orgpolicy.Access, error) {
	a, err := s.policy.Resolve(ctx, u, orgID)
	if isNotFound(err) {
		return orgpolicy.Access{}, apperr.ErrNotAuthorized
	}
	if err != nil {
		return orgpolicy.Access{}, fmt.Errorf("resolve access: %w", err)
	}
	if !a.Authorized() {
		return orgpolicy.Access{}, apperr.ErrNotAuthorized
	}
	return a, nil
}

// requireOwner is authorize restricted to the owner.
func (s *Service) requireOwner(ctx context.Context, u models.User, orgID models.OrganizationID) (models.Organization, error) {
	org, err := s.orgs.GetByID(ctx, orgID)
	if isNotFound(err) {
		return models.Organization{}, apperr.ErrNotAuthorized
	}
	if err != nil {
		return models.Organization{}, fmt.Errorf("load organization: %w", err)
	}
	if !orgpolicy.IsOwner(org, u) {
		return models.Organization{}, apperr.ErrNotAuthorized
	}
	return org, nil
}

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/marufbinsalim/walletree/internal/app/ledger"
	"github.com/marufbinsalim/walletree/internal/app/store/memstore"
	"github.com/marufbinsalim/walletree/internal/domain/models"
)

// MemoryRepos returns repositories backed by a fresh in-memory database.
func MemoryRepos() (ledger.Repos, *memstore.DB) {
	db := memstore.New()
	return ledger.Repos{
		Users:         db.Users(),
		Organizations: db.Organizations(),
		Invites:       db.Invites(),
		Transactions:  db.Transactions(),
		Tx:            db,
	}, db
}

// Fixtures creates test data directly through the repositories, skipping
// the service rules.
type Fixtures struct {
	t     *testing.T
	repos ledger.Repos
	now   time.Time
}

// NewFixtures creates a Fixtures instance writing through repos.
func NewFixtures(t *testing.T, repos ledger.Repos) *Fixtures {
	t.Helper()
	return &Fixtures{t: t, repos: repos, now: time.Now().UTC().Truncate(time.Millisecond)}
}

// Repos returns the underlying repositories for direct access in tests.
func (f *Fixtures) Repos() ledger.Repos {
	return f.repos
}

// CreateUser creates a user with the given identity subject and email.
func (f *Fixtures) CreateUser(ctx context.Context, subject, email string) models.User {
	f.t.Helper()
	u, err := f.repos.Users.Upsert(ctx, models.User{
		Subject:   subject,
		Email:     email,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	})
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateOrganization creates an organization owned by owner.
func (f *Fixtures) CreateOrganization(ctx context.Context, owner models.User, name string) models.Organization {
	f.t.Helper()
	org, err := f.repos.Organizations.Create(ctx, models.Organization{
		Name:      name,
		OwnerID:   owner.ID,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	})
	if err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateInvite stores an invite in the given status that expires a week
// from now.
func (f *Fixtures) CreateInvite(ctx context.Context, org models.Organization, email string, status models.InviteStatus) models.Invite {
	f.t.Helper()
	inv, err := f.repos.Invites.Create(ctx, models.Invite{
		OrganizationID: org.ID,
		Email:          email,
		Role:           models.RoleMember,
		Status:         status,
		InvitedBy:      org.OwnerID,
		InvitedAt:      f.now,
		ExpiresAt:      f.now.Add(models.DefaultInviteTTL),
	})
	if err != nil {
		f.t.Fatalf("failed to create test invite: %v", err)
	}
	return inv
}

// AddMember makes u a member of org through an accepted invite.
func (f *Fixtures) AddMember(ctx context.Context, org models.Organization, u models.User) models.Invite {
	f.t.Helper()
	return f.CreateInvite(ctx, org, u.Email, models.InviteAccepted)
}

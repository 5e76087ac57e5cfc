package ledger_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/marufbinsalim/walletree/internal/app/ledger"
	"github.com/marufbinsalim/walletree/internal/app/store/memstore"
	"github.com/marufbinsalim/walletree/internal/app/system/apperr"
	"github.com/marufbinsalim/walletree/internal/app/system/identity"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"github.com/shopspring/decimal"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type env struct {
	svc   *ledger.Service
	db    *memstore.DB
	clock *clock
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := memstore.New()
	c := &clock{t: time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)}
	svc := ledger.New(ledger.Repos{
		Users:         db.Users(),
		Organizations: db.Organizations(),
		Invites:       db.Invites(),
		Transactions:  db.Transactions(),
		Tx:            db,
	}, ledger.Options{Now: c.Now})
	return &env{svc: svc, db: db, clock: c}
}

// signIn syncs a user and returns a context carrying their identity.
func (e *env) signIn(t *testing.T, subject, email string) (context.Context, models.User) {
	t.Helper()
	ctx := identity.WithIdentity(context.Background(), identity.Identity{Subject: subject, Email: email})
	u, err := e.svc.SyncUser(ctx, ledger.Profile{})
	if err != nil {
		t.Fatalf("SyncUser(%s): %v", subject, err)
	}
	return ctx, u
}

func wantCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	if got := apperr.CodeOf(err); got != code {
		t.Fatalf("error code = %q (%v), want %q", got, err, code)
	}
}

func (e *env) createOrg(t *testing.T, ctx context.Context, name string) models.Organization {
	t.Helper()
	org, err := e.svc.CreateOrganization(ctx, name, "")
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	return org
}

func (e *env) join(t *testing.T, ownerCtx, memberCtx context.Context, org models.Organization, email string) models.Invite {
	t.Helper()
	inv, err := e.svc.CreateInvite(ownerCtx, org.ID, email, models.RoleMember)
	if err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}
	inv, err = e.svc.AcceptInvite(memberCtx, inv.ID)
	if err != nil {
		t.Fatalf("AcceptInvite: %v", err)
	}
	return inv
}

func spending(amount string, date time.Time) ledger.TransactionInput {
	return ledger.TransactionInput{
		Amount: decimal.RequireFromString(amount),
		Type:   models.Spending,
		Date:   date,
	}
}

func orgNames(ms []ledger.Membership) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Organization.Name
	}
	return out
}

func TestResolveCurrentUser(t *testing.T) {
	e := newEnv(t)

	if _, err := e.svc.ResolveCurrentUser(context.Background()); !apperr.IsCode(err, apperr.CodeUnauthenticated) {
		t.Fatalf("anonymous: got %v, want UNAUTHENTICATED", err)
	}

	ghost := identity.WithIdentity(context.Background(), identity.Identity{Subject: "ghost", Email: "g@example.com"})
	_, err := e.svc.ResolveCurrentUser(ghost)
	wantCode(t, err, apperr.CodeUserNotFound)

	ctx, u := e.signIn(t, "sub-x", "X@Example.com")
	if u.Email != "x@example.com" {
		t.Errorf("email = %q, want normalized", u.Email)
	}
	got, err := e.svc.ResolveCurrentUser(ctx)
	if err != nil {
		t.Fatalf("ResolveCurrentUser: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("resolved %s, want %s", got.ID, u.ID)
	}
}

func TestSyncUser_IsIdempotentAndRefreshesProfile(t *testing.T) {
	e := newEnv(t)
	ctx, first := e.signIn(t, "sub-x", "x@example.com")

	e.clock.Advance(time.Hour)
	again, err := e.svc.SyncUser(ctx, ledger.Profile{FirstName: " Ada ", LastName: "Lovelace"})
	if err != nil {
		t.Fatalf("SyncUser: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("second sync created a new user")
	}
	if again.DisplayName() != "Ada Lovelace" {
		t.Errorf("DisplayName = %q", again.DisplayName())
	}
	if !again.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed from %v to %v", first.CreatedAt, again.CreatedAt)
	}
}

func TestSyncUser_Rejects(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.SyncUser(context.Background(), ledger.Profile{})
	wantCode(t, err, apperr.CodeUnauthenticated)

	noEmail := identity.WithIdentity(context.Background(), identity.Identity{Subject: "s"})
	_, err = e.svc.SyncUser(noEmail, ledger.Profile{})
	wantCode(t, err, apperr.CodeInvalidArgument)

	e.signIn(t, "sub-a", "shared@example.com")
	other := identity.WithIdentity(context.Background(), identity.Identity{Subject: "sub-b", Email: "shared@example.com"})
	_, err = e.svc.SyncUser(other, ledger.Profile{})
	wantCode(t, err, apperr.CodeInvalidArgument)
}

// The creator owns the organization; a stranger does not see it.
func TestCreateOrganization_OwnerSeesIt(t *testing.T) {
	e := newEnv(t)
	xCtx, x := e.signIn(t, "sub-x", "x@example.com")
	yCtx, _ := e.signIn(t, "sub-y", "y@example.com")

	org := e.createOrg(t, xCtx, "  Acme   Corp ")
	if org.Name != "Acme Corp" {
		t.Errorf("Name = %q, want collapsed whitespace", org.Name)
	}
	if org.OwnerID != x.ID {
		t.Errorf("OwnerID = %s, want %s", org.OwnerID, x.ID)
	}

	xs, err := e.svc.ListUserOrganizations(xCtx)
	if err != nil {
		t.Fatalf("ListUserOrganizations(x): %v", err)
	}
	if len(xs) != 1 || xs[0].Organization.ID != org.ID || xs[0].Role != models.RoleOwner {
		t.Fatalf("x organizations = %+v", xs)
	}

	ys, err := e.svc.ListUserOrganizations(yCtx)
	if err != nil {
		t.Fatalf("ListUserOrganizations(y): %v", err)
	}
	if len(ys) != 0 {
		t.Fatalf("stranger sees %v", orgNames(ys))
	}

	_, err = e.svc.GetOrganization(yCtx, org.ID)
	wantCode(t, err, apperr.CodeNotAuthorized)

	members, err := e.svc.ListMembers(xCtx, org.ID)
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if len(members) != 1 || members[0].User.ID != x.ID || members[0].Role != models.RoleOwner {
		t.Fatalf("members = %+v, want only the owner", members)
	}
}

func TestCreateOrganization_Validation(t *testing.T) {
	e := newEnv(t)
	ctx, _ := e.signIn(t, "sub-x", "x@example.com")

	_, err := e.svc.CreateOrganization(ctx, "   ", "")
	wantCode(t, err, apperr.CodeInvalidArgument)

	_, err = e.svc.CreateOrganization(context.Background(), "Acme", "")
	wantCode(t, err, apperr.CodeUnauthenticated)

	org, err := e.svc.CreateOrganization(ctx, "<b>Acme</b>", "<script>x</script>Books")
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	if org.Name != "Acme" || org.Description != "Books" {
		t.Errorf("sanitized = %q / %q", org.Name, org.Description)
	}
}

func TestUpdateOrganization_OwnerOnly(t *testing.T) {
	e := newEnv(t)
	xCtx, _ := e.signIn(t, "sub-x", "x@example.com")
	yCtx, _ := e.signIn(t, "sub-y", "y@example.com")
	org := e.createOrg(t, xCtx, "Acme")
	e.join(t, xCtx, yCtx, org, "y@example.com")

	_, err := e.svc.UpdateOrganization(yCtx, org.ID, "Hijacked", "")
	wantCode(t, err, apperr.CodeNotAuthorized)

	e.clock.Advance(time.Minute)
	updated, err := e.svc.UpdateOrganization(xCtx, org.ID, "Acme Ltd", "renamed")
	if err != nil {
		t.Fatalf("UpdateOrganization: %v", err)
	}
	if updated.Name != "Acme Ltd" || updated.Description != "renamed" {
		t.Errorf("updated = %+v", updated)
	}
	if !updated.UpdatedAt.After(org.UpdatedAt) {
		t.Errorf("UpdatedAt not advanced")
	}

	m, err := e.svc.GetOrganization(yCtx, org.ID)
	if err != nil {
		t.Fatalf("GetOrganization(member): %v", err)
	}
	if m.Organization.Name != "Acme Ltd" || m.Role != models.RoleMember {
		t.Errorf("member view = %+v", m)
	}
}

// An accepted invite makes the invitee a member.
func TestAcceptInvite_AddsMember(t *testing.T) {
	e := newEnv(t)
	xCtx, x := e.signIn(t, "sub-x", "x@example.com")
	yCtx, y := e.signIn(t, "sub-y", "y@example.com")
	org := e.createOrg(t, xCtx, "Acme")

	_, err := e.svc.ListMembers(yCtx, org.ID)
	wantCode(t, err, apperr.CodeNotAuthorized)

	inv, err := e.svc.CreateInvite(xCtx, org.ID, "Y@example.com", models.RoleMember)
	if err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}
	if inv.Status != models.InvitePending {
		t.Errorf("Status = %q", inv.Status)
	}
	if want := e.clock.Now().Add(7 * 24 * time.Hour); !inv.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", inv.ExpiresAt, want)
	}

	pending, err := e.svc.ListPendingInvites(yCtx)
	if err != nil {
		t.Fatalf("ListPendingInvites: %v", err)
	}
	if len(pending) != 1 || pending[0].OrganizationName != "Acme" {
		t.Fatalf("pending = %+v", pending)
	}

	accepted, err := e.svc.AcceptInvite(yCtx, inv.ID)
	if err != nil {
		t.Fatalf("AcceptInvite: %v", err)
	}
	if accepted.Status != models.InviteAccepted {
		t.Errorf("Status = %q", accepted.Status)
	}

	members, err := e.svc.ListMembers(yCtx, org.ID)
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if len(members) != 2 || members[0].User.ID != x.ID || members[1].User.ID != y.ID {
		t.Fatalf("members = %+v", members)
	}
	if members[1].Role != models.RoleMember {
		t.Errorf("member role = %q", members[1].Role)
	}

	ys, err := e.svc.ListUserOrganizations(yCtx)
	if err != nil {
		t.Fatalf("ListUserOrganizations: %v", err)
	}
	if len(ys) != 1 || ys[0].Role != models.RoleMember {
		t.Fatalf("y organizations = %+v", ys)
	}

	_, err = e.svc.AcceptInvite(yCtx, inv.ID)
	wantCode(t, err, apperr.CodeInviteNotPending)
}

// Re-inviting the same email replaces the earlier invite.
func TestCreateInvite_SupersedesPrior(t *testing.T) {
	e := newEnv(t)
	xCtx, _ := e.signIn(t, "sub-x", "x@example.com")
	e.signIn(t, "sub-y", "y@example.com")
	org := e.createOrg(t, xCtx, "Acme")

	first, err := e.svc.CreateInvite(xCtx, org.ID, "y@example.com", models.RoleMember)
	if err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}
	e.clock.Advance(24 * time.Hour)
	second, err := e.svc.CreateInvite(xCtx, org.ID, "y@example.com", models.RoleMember)
	if err != nil {
		t.Fatalf("CreateInvite again: %v", err)
	}

	invs, err := e.svc.ListOrganizationInvites(xCtx, org.ID)
	if err != nil {
		t.Fatalf("ListOrganizationInvites: %v", err)
	}
	if len(invs) != 1 {
		t.Fatalf("got %d invites, want 1", len(invs))
	}
	if invs[0].ID != second.ID || invs[0].Status != models.InvitePending {
		t.Errorf("remaining invite = %+v", invs[0])
	}
	if !invs[0].ExpiresAt.After(first.ExpiresAt) {
		t.Errorf("expiry not renewed")
	}
}

func TestCreateInvite_Rules(t *testing.T) {
	e := newEnv(t)
	xCtx, _ := e.signIn(t, "sub-x", "x@example.com")
	yCtx, _ := e.signIn(t, "sub-y", "y@example.com")
	org := e.createOrg(t, xCtx, "Acme")

	tests := []struct {
		name  string
		ctx   context.Context
		email string
		role  models.Role
		want  apperr.Code
	}{
		{"not owner", yCtx, "x@example.com", models.RoleMember, apperr.CodeNotAuthorized},
		{"unknown user", xCtx, "nobody@example.com", models.RoleMember, apperr.CodeUserDoesNotExist},
		{"self", xCtx, "X@EXAMPLE.com", models.RoleMember, apperr.CodeCannotInviteSelf},
		{"bad role", xCtx, "y@example.com", "admin", apperr.CodeInvalidArgument},
		{"empty email", xCtx, " ", models.RoleMember, apperr.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.CreateInvite(tt.ctx, org.ID, tt.email, tt.role)
			wantCode(t, err, tt.want)
		})
	}

	_, err := e.svc.CreateInvite(xCtx, models.NewOrganizationID(), "y@example.com", models.RoleMember)
	wantCode(t, err, apperr.CodeNotAuthorized)
}

// An expired invite cannot be accepted and stays pending.
func TestAcceptInvite_Expired(t *testing.T) {
	e := newEnv(t)
	xCtx, _ := e.signIn(t, "sub-x", "x@example.com")
	yCtx, _ := e.signIn(t, "sub-y", "y@example.com")
	org := e.createOrg(t, xCtx, "Acme")

	inv, err := e.svc.CreateInvite(xCtx, org.ID, "y@example.com", models.RoleMember)
	if err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}
	e.clock.Advance(8 * 24 * time.Hour)

	_, err = e.svc.AcceptInvite(yCtx, inv.ID)
	wantCode(t, err, apperr.CodeInviteExpired)

	stored, err := e.db.Invites().GetByID(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != models.InvitePending {
		t.Errorf("Status = %q, want pending", stored.Status)
	}

	pending, err := e.svc.ListPendingInvites(yCtx)
	if err != nil {
		t.Fatalf("ListPendingInvites: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expired invite still listed")
	}

	if _, err := e.svc.DeclineInvite(yCtx, inv.ID); err != nil {
		t.Fatalf("DeclineInvite on expired invite: %v", err)
	}
}

func TestAcceptInvite_Preconditions(t *testing.T) {
	e := newEnv(t)
	xCtx, _ := e.signIn(t, "sub-x", "x@example.com")
	e.signIn(t, "sub-y", "y@example.com")
	zCtx, _ := e.signIn(t, "sub-z", "z@example.com")
	org := e.createOrg(t, xCtx, "Acme")

	inv, err := e.svc.CreateInvite(xCtx, org.ID, "y@example.com", models.RoleMember)
	if err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}

	_, err = e.svc.AcceptInvite(zCtx, inv.ID)
	wantCode(t, err, apperr.CodeInviteNotForUser)

	_, err = e.svc.AcceptInvite(zCtx, models.NewInviteID())
	wantCode(t, err, apperr.CodeNotFound)

	_, err = e.svc.DeclineInvite(context.Background(), inv.ID)
	wantCode(t, err, apperr.CodeUnauthenticated)
}

func TestInviteTransitions_AreOneWay(t *testing.T) {
	e := newEnv(t)
	xCtx, _ := e.signIn(t, "sub-x", "x@example.com")
	yCtx, _ := e.signIn(t, "sub-y", "y@example.com")
	org := e.createOrg(t, xCtx, "Acme")

	inv, err := e.svc.CreateInvite(xCtx, org.ID, "y@example.com", models.RoleMember)
	if err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}

	_, err = e.svc.RevokeInvite(yCtx, inv.ID)
	wantCode(t, err, apperr.CodeNotAuthorized)

	if _, err := e.svc.RevokeInvite(xCtx, inv.ID); err != nil {
		t.Fatalf("RevokeInvite: %v", err)
	}

	_, err = e.svc.AcceptInvite(yCtx, inv.ID)
	wantCode(t, err, apperr.CodeInviteNotPending)
	_, err = e.svc.DeclineInvite(yCtx, inv.ID)
	wantCode(t, err, apperr.CodeInviteNotPending)
	_, err = e.svc.RevokeInvite(xCtx, inv.ID)
	wantCode(t, err, apperr.CodeInviteNotPending)

	_, err = e.svc.RevokeInvite(xCtx, models.NewInviteID())
	wantCode(t, err, apperr.CodeNotFound)
}

func TestKickMember(t *testing.T) {
	e := newEnv(t)
	xCtx, x := e.signIn(t, "sub-x", "x@example.com")
	yCtx, y := e.signIn(t, "sub-y", "y@example.com")
	zCtx, z := e.signIn(t, "sub-z", "z@example.com")
	org := e.createOrg(t, xCtx, "Acme")
	inv := e.join(t, xCtx, yCtx, org, "y@example.com")

	err := e.svc.KickMember(zCtx, org.ID, y.ID)
	wantCode(t, err, apperr.CodeNotAuthorized)

	err = e.svc.KickMember(xCtx, org.ID, x.ID)
	wantCode(t, err, apperr.CodeCannotKickSelf)

	err = e.svc.KickMember(yCtx, org.ID, x.ID)
	wantCode(t, err, apperr.CodeUserNotMember)

	err = e.svc.KickMember(xCtx, org.ID, z.ID)
	wantCode(t, err, apperr.CodeUserNotMember)

	err = e.svc.KickMember(xCtx, org.ID, models.NewUserID())
	wantCode(t, err, apperr.CodeNotFound)

	err = e.svc.KickMember(xCtx, models.NewOrganizationID(), y.ID)
	wantCode(t, err, apperr.CodeNotFound)

	if err := e.svc.KickMember(xCtx, org.ID, y.ID); err != nil {
		t.Fatalf("KickMember: %v", err)
	}
	stored, err := e.db.Invites().GetByID(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != models.InviteRemoved {
		t.Errorf("Status = %q, want removed", stored.Status)
	}

	_, err = e.svc.ListMembers(yCtx, org.ID)
	wantCode(t, err, apperr.CodeNotAuthorized)

	err = e.svc.KickMember(xCtx, org.ID, y.ID)
	wantCode(t, err, apperr.CodeUserNotMember)
}

func TestListOrganizationInvites_OwnerOnly(t *testing.T) {
	e := newEnv(t)
	xCtx, _ := e.signIn(t, "sub-x", "x@example.com")
	yCtx, _ := e.signIn(t, "sub-y", "y@example.com")
	e.signIn(t, "sub-z", "z@example.com")
	org := e.createOrg(t, xCtx, "Acme")
	e.join(t, xCtx, yCtx, org, "y@example.com")

	e.clock.Advance(time.Minute)
	if _, err := e.svc.CreateInvite(xCtx, org.ID, "z@example.com", models.RoleMember); err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}

	invs, err := e.svc.ListOrganizationInvites(xCtx, org.ID)
	if err != nil {
		t.Fatalf("ListOrganizationInvites: %v", err)
	}
	if len(invs) != 2 || invs[0].Email != "z@example.com" {
		t.Fatalf("invites = %+v, want newest first", invs)
	}

	_, err = e.svc.ListOrganizationInvites(yCtx, org.ID)
	wantCode(t, err, apperr.CodeNotAuthorized)
}

func TestListPendingInvites_Anonymous(t *testing.T) {
	e := newEnv(t)
	got, err := e.svc.ListPendingInvites(context.Background())
	if err != nil {
		t.Fatalf("ListPendingInvites: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty non-nil list", got)
	}
}

func TestDeleteOrganization_Cascades(t *testing.T) {
	e := newEnv(t)
	xCtx, _ := e.signIn(t, "sub-x", "x@example.com")
	yCtx, _ := e.signIn(t, "sub-y", "y@example.com")
	org := e.createOrg(t, xCtx, "Acme")
	e.join(t, xCtx, yCtx, org, "y@example.com")

	if _, err := e.svc.CreateTransaction(yCtx, &org.ID, spending("10", e.clock.Now())); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	personal, err := e.svc.CreateTransaction(yCtx, nil, spending("3", e.clock.Now()))
	if err != nil {
		t.Fatalf("CreateTransaction personal: %v", err)
	}

	err = e.svc.DeleteOrganization(yCtx, org.ID)
	wantCode(t, err, apperr.CodeNotAuthorized)

	if err := e.svc.DeleteOrganization(xCtx, org.ID); err != nil {
		t.Fatalf("DeleteOrganization: %v", err)
	}

	bg := context.Background()
	if _, err := e.db.Organizations().GetByID(bg, org.ID); err == nil {
		t.Errorf("organization still stored")
	}
	if invs, _ := e.db.Invites().ListByOrg(bg, org.ID); len(invs) != 0 {
		t.Errorf("%d invites survived", len(invs))
	}
	if txs, _ := e.db.Transactions().List(bg, models.OrganizationScope(org.ID)); len(txs) != 0 {
		t.Errorf("%d transactions survived", len(txs))
	}
	if _, err := e.db.Transactions().GetByID(bg, personal.ID); err != nil {
		t.Errorf("personal transaction removed: %v", err)
	}

	_, err = e.svc.ListMembers(xCtx, org.ID)
	wantCode(t, err, apperr.CodeNotAuthorized)
	_, err = e.svc.ListTransactions(xCtx, &org.ID)
	wantCode(t, err, apperr.CodeNotAuthorized)
}

// Monthly totals only count the current month's personal transactions.
func TestMonthlyStats(t *testing.T) {
	e := newEnv(t)
	xCtx, _ := e.signIn(t, "sub-x", "x@example.com")
	now := e.clock.Now()

	if _, err := e.svc.CreateTransaction(xCtx, nil, spending("50", now)); err != nil {
		t.Fatalf("create spending: %v", err)
	}
	earning := ledger.TransactionInput{Amount: decimal.NewFromInt(100), Type: models.Earning, Date: now.Add(-24 * time.Hour)}
	if _, err := e.svc.CreateTransaction(xCtx, nil, earning); err != nil {
		t.Fatalf("create earning: %v", err)
	}
	lastMonth := time.Date(2025, time.February, 28, 23, 59, 0, 0, time.UTC)
	if _, err := e.svc.CreateTransaction(xCtx, nil, spending("999", lastMonth)); err != nil {
		t.Fatalf("create old: %v", err)
	}

	st, err := e.svc.MonthlyStats(xCtx, nil)
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	if !st.TotalSpent.Equal(decimal.NewFromInt(50)) || !st.TotalEarned.Equal(decimal.NewFromInt(100)) || st.TransactionCount != 2 {
		t.Fatalf("stats = %+v, want spent 50 earned 100 count 2", st)
	}

	anon, err := e.svc.MonthlyStats(context.Background(), nil)
	if err != nil {
		t.Fatalf("MonthlyStats anonymous: %v", err)
	}
	if !anon.TotalSpent.IsZero() || !anon.TotalEarned.IsZero() || anon.TransactionCount != 0 {
		t.Errorf("anonymous stats = %+v", anon)
	}
}

func TestMonthlyStats_UsesConfiguredZone(t *testing.T) {
	db := memstore.New()
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2025-03-31 20:00 UTC is already April 1st in loc.
	now := time.Date(2025, time.March, 31, 20, 0, 0, 0, time.UTC)
	svc := ledger.New(ledger.Repos{
		Users:         db.Users(),
		Organizations: db.Organizations(),
		Invites:       db.Invites(),
		Transactions:  db.Transactions(),
		Tx:            db,
	}, ledger.Options{Location: loc, Now: func() time.Time { return now }})

	ctx := identity.WithIdentity(context.Background(), identity.Identity{Subject: "s", Email: "s@example.com"})
	if _, err := svc.SyncUser(ctx, ledger.Profile{}); err != nil {
		t.Fatalf("SyncUser: %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, nil, spending("5", now.Add(-time.Hour))); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, nil, spending("7", now.Add(-7*time.Hour))); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	st, err := svc.MonthlyStats(ctx, nil)
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	if st.TransactionCount != 1 || !st.TotalSpent.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("stats = %+v, want only the April transaction", st)
	}
}

// Members write organization transactions; strangers cannot touch them.
func TestOrganizationTransactions_Authorization(t *testing.T) {
	e := newEnv(t)
	xCtx, _ := e.signIn(t, "sub-x", "x@example.com")
	yCtx, y := e.signIn(t, "sub-y", "y@example.com")
	zCtx, _ := e.signIn(t, "sub-z", "z@example.com")
	org := e.createOrg(t, xCtx, "Acme")
	e.join(t, xCtx, yCtx, org, "y@example.com")

	in := spending("25.50", e.clock.Now())
	in.Description = "Team lunch"
	in.Tags = []string{" food ", "", "team", "food"}
	tx, err := e.svc.CreateTransaction(yCtx, &org.ID, in)
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if tx.UserID != y.ID || tx.OrganizationID == nil || *tx.OrganizationID != org.ID {
		t.Fatalf("tx = %+v", tx)
	}
	if want := []string{"food", "", "team", "food"}; !reflect.DeepEqual(tx.Tags, want) {
		t.Errorf("Tags = %v, want %v", tx.Tags, want)
	}

	_, err = e.svc.CreateTransaction(zCtx, &org.ID, in)
	wantCode(t, err, apperr.CodeNotAuthorized)
	_, err = e.svc.ListTransactions(zCtx, &org.ID)
	wantCode(t, err, apperr.CodeNotAuthorized)
	_, err = e.svc.MonthlyStats(zCtx, &org.ID)
	wantCode(t, err, apperr.CodeNotAuthorized)

	err = e.svc.DeleteTransaction(zCtx, tx.ID)
	wantCode(t, err, apperr.CodeNotAuthorized)

	list, err := e.svc.ListTransactions(xCtx, &org.ID)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(list) != 1 || list[0].ID != tx.ID {
		t.Fatalf("list = %+v", list)
	}

	upd := spending("30", e.clock.Now())
	if _, err := e.svc.UpdateTransaction(xCtx, tx.ID, upd); err != nil {
		t.Fatalf("owner UpdateTransaction: %v", err)
	}

	if err := e.svc.DeleteTransaction(xCtx, tx.ID); err != nil {
		t.Fatalf("owner DeleteTransaction: %v", err)
	}
	err = e.svc.DeleteTransaction(xCtx, tx.ID)
	wantCode(t, err, apperr.CodeNotFound)
}

func TestOrganizationTransactions_KickedCreatorLosesWrites(t *testing.T) {
	e := newEnv(t)
	xCtx, _ := e.signIn(t, "sub-x", "x@example.com")
	yCtx, y := e.signIn(t, "sub-y", "y@example.com")
	org := e.createOrg(t, xCtx, "Acme")
	e.join(t, xCtx, yCtx, org, "y@example.com")

	tx, err := e.svc.CreateTransaction(yCtx, &org.ID, spending("12", e.clock.Now()))
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if err := e.svc.KickMember(xCtx, org.ID, y.ID); err != nil {
		t.Fatalf("KickMember: %v", err)
	}

	_, err = e.svc.UpdateTransaction(yCtx, tx.ID, spending("9999", e.clock.Now()))
	wantCode(t, err, apperr.CodeNotAuthorized)
	err = e.svc.DeleteTransaction(yCtx, tx.ID)
	wantCode(t, err, apperr.CodeNotAuthorized)

	list, err := e.svc.ListTransactions(xCtx, &org.ID)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(list) != 1 || !list[0].Amount.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("transaction changed after kick: %+v", list)
	}
}

func TestPersonalTransactions_CreatorOnly(t *testing.T) {
	e := newEnv(t)
	xCtx, _ := e.signIn(t, "sub-x", "x@example.com")
	yCtx, _ := e.signIn(t, "sub-y", "y@example.com")

	older, err := e.svc.CreateTransaction(xCtx, nil, spending("1", e.clock.Now().Add(-48*time.Hour)))
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	newer, err := e.svc.CreateTransaction(xCtx, nil, spending("2", e.clock.Now()))
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	list, err := e.svc.ListTransactions(xCtx, nil)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("list order wrong: %+v", list)
	}

	ys, err := e.svc.ListTransactions(yCtx, nil)
	if err != nil {
		t.Fatalf("ListTransactions(y): %v", err)
	}
	if len(ys) != 0 {
		t.Errorf("y sees x's personal transactions")
	}

	_, err = e.svc.UpdateTransaction(yCtx, older.ID, spending("9", e.clock.Now()))
	wantCode(t, err, apperr.CodeNotAuthorized)

	anon, err := e.svc.ListTransactions(context.Background(), nil)
	if err != nil || len(anon) != 0 {
		t.Errorf("anonymous list = %v, %v", anon, err)
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	e := newEnv(t)
	ctx, _ := e.signIn(t, "sub-x", "x@example.com")
	now := e.clock.Now()

	tests := []struct {
		name string
		in   ledger.TransactionInput
	}{
		{"negative amount", spending("-1", now)},
		{"bad type", ledger.TransactionInput{Amount: decimal.NewFromInt(1), Type: "refund", Date: now}},
		{"missing date", ledger.TransactionInput{Amount: decimal.NewFromInt(1), Type: models.Earning}},
		{"too many digits", spending("123456789012345678901234567890123456", now)},
		{"too precise", spending("0.12345678901234567890123456789012345678", now)},
		{"exponent out of range", spending("1e7000", now)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.CreateTransaction(ctx, nil, tt.in)
			wantCode(t, err, apperr.CodeInvalidArgument)
		})
	}

	_, err := e.svc.CreateTransaction(context.Background(), nil, spending("1", now))
	wantCode(t, err, apperr.CodeUnauthenticated)
}

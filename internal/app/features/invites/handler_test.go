package invites_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marufbinsalim/walletree/internal/app/features/invites"
	"github.com/marufbinsalim/walletree/internal/app/ledger"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"github.com/marufbinsalim/walletree/internal/testutil"
	"go.uber.org/zap"
)

type testEnv struct {
	router  chi.Router
	fx      *testutil.Fixtures
	owner   models.User
	invitee models.User
	org     models.Organization
	invite  models.Invite
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	repos, _ := testutil.MemoryRepos()
	svc := ledger.New(repos, ledger.Options{Now: func() time.Time { return now }})

	fx := testutil.NewFixtures(t, repos)
	ctx := t.Context()
	e := &testEnv{router: invites.Routes(invites.NewHandler(svc, zap.NewNop())), fx: fx}
	e.owner = fx.CreateUser(ctx, "sub-owner", "owner@example.com")
	e.invitee = fx.CreateUser(ctx, "sub-invitee", "invitee@example.com")
	e.org = fx.CreateOrganization(ctx, e.owner, "Acme")
	e.invite = fx.CreateInvite(ctx, e.org, e.invitee.Email, models.InvitePending)
	return e
}

func (e *testEnv) do(t *testing.T, method, target string, u *models.User) *testutil.ResponseRecorder {
	t.Helper()
	req := testutil.NewRequest(t, method, target, nil)
	if u != nil {
		req = testutil.WithUser(req, *u)
	}
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type inviteBody struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	OrganizationName string `json:"organization_name"`
}

func TestServePending(t *testing.T) {
	e := newTestEnv(t, time.Now())

	rec := e.do(t, "GET", "/pending", &e.invitee)
	rec.AssertStatus(t, http.StatusOK)
	var got []inviteBody
	rec.DecodeJSON(t, &got)
	if len(got) != 1 || got[0].ID != e.invite.ID.Hex() || got[0].OrganizationName != "Acme" {
		t.Fatalf("pending = %+v", got)
	}

	rec = e.do(t, "GET", "/pending", nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &got)
	if len(got) != 0 {
		t.Errorf("anonymous pending = %+v", got)
	}
}

func TestHandleAccept(t *testing.T) {
	e := newTestEnv(t, time.Now())
	path := "/" + e.invite.ID.Hex() + "/accept"

	rec := e.do(t, "POST", path, &e.owner)
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertErrorCode(t, "INVITE_NOT_FOR_USER")

	rec = e.do(t, "POST", path, &e.invitee)
	rec.AssertStatus(t, http.StatusOK)
	var got inviteBody
	rec.DecodeJSON(t, &got)
	if got.Status != "accepted" {
		t.Errorf("status = %q", got.Status)
	}

	rec = e.do(t, "POST", path, &e.invitee)
	rec.AssertErrorCode(t, "INVITE_NOT_PENDING")
}

func TestHandleAccept_Expired(t *testing.T) {
	e := newTestEnv(t, time.Now().Add(30*24*time.Hour))

	rec := e.do(t, "POST", "/"+e.invite.ID.Hex()+"/accept", &e.invitee)
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertErrorCode(t, "INVITE_EXPIRED")
}

func TestHandleDeclineAndRevoke(t *testing.T) {
	e := newTestEnv(t, time.Now())
	id := e.invite.ID.Hex()

	rec := e.do(t, "POST", "/"+id+"/revoke", &e.invitee)
	rec.AssertStatus(t, http.StatusForbidden)

	rec = e.do(t, "POST", "/"+id+"/decline", &e.invitee)
	rec.AssertStatus(t, http.StatusOK)

	rec = e.do(t, "POST", "/"+id+"/revoke", &e.owner)
	rec.AssertErrorCode(t, "INVITE_NOT_PENDING")
}

func TestTransition_BadInput(t *testing.T) {
	e := newTestEnv(t, time.Now())

	rec := e.do(t, "POST", "/xyz/accept", &e.invitee)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertErrorCode(t, "INVALID_ARGUMENT")

	rec = e.do(t, "POST", "/"+models.NewInviteID().Hex()+"/decline", &e.invitee)
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertErrorCode(t, "NOT_FOUND")

	rec = e.do(t, "POST", "/"+e.invite.ID.Hex()+"/accept", nil)
	rec.AssertStatus(t, http.StatusUnauthorized)
}

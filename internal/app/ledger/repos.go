package ledger

import (
	"context"
	"time"

	"github.com/marufbinsalim/walletree/internal/domain/models"
)

// Missing records are reported as mongo.ErrNoDocuments by every implementation.

type UserRepo interface {
	GetByID(ctx context.Context, id models.UserID) (models.User, error)
	GetBySubject(ctx context.Context, subject string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByEmails(ctx context.Context, emails []string) ([]models.User, error)
	Upsert(ctx context.Context, u models.User) (models.User, error)
}

type OrganizationRepo interface {
	Create(ctx context.Context, org models.Organization) (models.Organization, error)
	GetByID(ctx context.Context, id models.OrganizationID) (models.Organization, error)
	GetByIDs(ctx context.Context, ids []models.OrganizationID) ([]models.Organization, error)
	ListByOwner(ctx context.Context, owner models.UserID) ([]models.Organization, error)
	Update(ctx context.Context, org models.Organization) error
	Delete(ctx context.Context, id models.OrganizationID) (int64, error)
}

type InviteRepo interface {
	Create(ctx context.Context, inv models.Invite) (models.Invite, error)
	GetByID(ctx context.Context, id models.InviteID) (models.Invite, error)
	FindByOrgEmailStatus(ctx context.Context, org models.OrganizationID, email string, status models.InviteStatus) (models.Invite, error)
	ListByOrg(ctx context.Context, org models.OrganizationID) ([]models.Invite, error)
	ListByOrgStatus(ctx context.Context, org models.OrganizationID, status models.InviteStatus) ([]models.Invite, error)
	ListByEmailStatus(ctx context.Context, email string, status models.InviteStatus) ([]models.Invite, error)
	SetStatus(ctx context.Context, id models.InviteID, from, to models.InviteStatus) error
	DeleteByOrgEmail(ctx context.Context, org models.OrganizationID, email string) (int64, error)
	DeleteByOrg(ctx context.Context, org models.OrganizationID) (int64, error)
}

type TransactionRepo interface {
	Create(ctx context.Context, t models.Transaction) (models.Transaction, error)
	GetByID(ctx context.Context, id models.TransactionID) (models.Transaction, error)
	List(ctx context.Context, scope models.Scope) ([]models.Transaction, error)
	Totals(ctx context.Context, scope models.Scope, from, to time.Time) (models.MonthlyStats, error)
	Update(ctx context.Context, t models.Transaction) error
	Delete(ctx context.Context, id models.TransactionID) (int64, error)
	DeleteByOrg(ctx context.Context, org models.OrganizationID) (int64, error)
}

// TxRunner runs fn atomically where the backend allows it.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repos bundles the backends a Service is built from.
type Repos struct {
	Users         UserRepo
	Organizations OrganizationRepo
	Invites       InviteRepo
	Transactions  TransactionRepo
	Tx            TxRunner
}

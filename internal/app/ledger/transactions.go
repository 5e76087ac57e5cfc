package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/marufbinsalim/walletree/internal/app/system/apperr"
	"github.com/marufbinsalim/walletree/internal/app/system/htmlsanitize"
	"github.com/marufbinsalim/walletree/internal/app/system/identity"
	"github.com/marufbinsalim/walletree/internal/app/system/metrics"
	"github.com/marufbinsalim/walletree/internal/app/system/normalize"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionInput holds the user-editable fields of a transaction.
type TransactionInput struct {
	Amount      decimal.Decimal
	Type        models.TransactionType
	Description string
	Tags        []string
	Date        time.Time
}

func (in TransactionInput) clean() (TransactionInput, error) {
	if in.Amount.IsNegative() {
		return in, apperr.Invalid("amount must not be negative")
	}
	if !models.AmountFits(in.Amount) {
		return in, apperr.Invalid("amount is out of range: at most 34 significant digits")
	}
	if !in.Type.Valid() {
		return in, apperr.Invalid("type must be earning or spending")
	}
	if in.Date.IsZero() {
		return in, apperr.Invalid("date is required")
	}
	in.Description = htmlsanitize.PlainText(in.Description)
	tags := make([]string, len(in.Tags))
	for i, t := range in.Tags {
		tags[i] = htmlsanitize.PlainText(t)
	}
	in.Tags = normalize.Tags(tags)
	in.Date = in.Date.UTC()
	return in, nil
}

// scopeFor picks the personal scope or, after the membership check, the
// organization scope.
func (s *Service) scopeFor(ctx context.Context, u models.User, orgID *models.OrganizationID) (models.Scope, error) {
	if orgID == nil {
		return models.PersonalScope(u.ID), nil
	}
	if _, err := s.authorize(ctx, u, *orgID); err != nil {
		return models.Scope{}, err
	}
	return models.OrganizationScope(*orgID), nil
}

// ListTransactions returns the caller's personal transactions, or all
// transactions of orgID, newest date first. Anonymous callers get nothing.
func (s *Service) ListTransactions(ctx context.Context, orgID *models.OrganizationID) ([]models.Transaction, error) {
	u, ok, err := s.optionalUser(ctx)
	if err != nil || !ok {
		return []models.Transaction{}, err
	}
	scope, err := s.scopeFor(ctx, u, orgID)
	if err != nil {
		return nil, err
	}
	txs, err := s.txs.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// monthWindow returns [start of month, start of next month) for now in loc.
func monthWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	from := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}

func zeroStats() models.MonthlyStats {
	return models.MonthlyStats{TotalSpent: decimal.Zero, TotalEarned: decimal.Zero}
}

// MonthlyStats totals the current calendar month for the same scope
// ListTransactions would use. Anonymous callers get zeros.
func (s *Service) MonthlyStats(ctx context.Context, orgID *models.OrganizationID) (models.MonthlyStats, error) {
	if _, ok := identity.FromContext(ctx); !ok {
		return zeroStats(), nil
	}
	u, err := s.currentUser(ctx)
	if err != nil {
		return models.MonthlyStats{}, err
	}
	scope, err := s.scopeFor(ctx, u, orgID)
	if err != nil {
		return models.MonthlyStats{}, err
	}
	from, to := monthWindow(s.now(), s.loc)
	st, err := s.txs.Totals(ctx, scope, from.UTC(), to.UTC())
	if err != nil {
		return models.MonthlyStats{}, fmt.Errorf("monthly totals: %w", err)
	}
	return st, nil
}

// CreateTransaction records a transaction for the caller, optionally in an
// organization the caller belongs to.
func (s *Service) CreateTransaction(ctx context.Context, orgID *models.OrganizationID, in TransactionInput) (models.Transaction, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	scope, err := s.scopeFor(ctx, u, orgID)
	if err != nil {
		return models.Transaction{}, err
	}
	in, err = in.clean()
	if err != nil {
		return models.Transaction{}, err
	}

	now := s.now().UTC()
	t, err := s.txs.Create(ctx, models.Transaction{
		UserID:         u.ID,
		OrganizationID: scope.OrganizationID,
		Amount:         in.Amount,
		Type:           in.Type,
		Description:    in.Description,
		Tags:           in.Tags,
		Date:           in.Date,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return models.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	metrics.ObserveTransactionWrite("create", scope.Label())
	s.log.Debug("transaction created",
		zap.String("transaction_id", t.ID.Hex()),
		zap.String("scope", scope.Label()))
	return t, nil
}

// loadEditable returns a personal transaction to its creator, or an
// organization transaction to a current owner or accepted member.
func (s *Service) loadEditable(ctx context.Context, id models.TransactionID) (models.Transaction, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	t, err := s.txs.GetByID(ctx, id)
	if isNotFound(err) {
		return models.Transaction{}, apperr.NotFound("Transaction")
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("load transaction: %w", err)
	}
	if t.Personal() {
		if t.UserID != u.ID {
			return models.Transaction{}, apperr.ErrNotAuthorized
		}
		return t, nil
	}
	// Organization rows need current membership, even for their creator.
	if _, err := s.authorize(ctx, u, *t.OrganizationID); err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

// UpdateTransaction replaces the editable fields of a transaction.
func (s *Service) UpdateTransaction(ctx context.Context, id models.TransactionID, in TransactionInput) (models.Transaction, error) {
	t, err := s.loadEditable(ctx, id)
	if err != nil {
		return models.Transaction{}, err
	}
	in, err = in.clean()
	if err != nil {
		return models.Transaction{}, err
	}

	t.Amount = in.Amount
	t.Type = in.Type
	t.Description = in.Description
	t.Tags = in.Tags
	t.Date = in.Date
	t.UpdatedAt = s.now().UTC()
	if err := s.txs.Update(ctx, t); err != nil {
		if isNotFound(err) {
			return models.Transaction{}, apperr.NotFound("Transaction")
		}
		return models.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	metrics.ObserveTransactionWrite("update", scopeLabel(t))
	return t, nil
}

// DeleteTransaction removes a transaction.
func (s *Service) DeleteTransaction(ctx context.Context, id models.TransactionID) error {
	t, err := s.loadEditable(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.txs.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("Transaction")
	}

	metrics.ObserveTransactionWrite("delete", scopeLabel(t))
	s.log.Debug("transaction deleted", zap.String("transaction_id", id.Hex()))
	return nil
}

func scopeLabel(t models.Transaction) string {
	if t.Personal() {
		return models.PersonalScope(t.UserID).Label()
	}
	return models.OrganizationScope(*t.OrganizationID).Label()
}

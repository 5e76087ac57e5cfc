// internal/domain/models/transaction.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType carries the sign of a transaction; Amount itself is
// never negative.
type TransactionType string

const (
	Earning  TransactionType = "earning"
	Spending TransactionType = "spending"
)

// Valid reports whether t is earning or spending.
func (t TransactionType) Valid() bool {
	return t == Earning || t == Spending
}

// Transaction is a single income or expense entry. OrganizationID is nil
// for personal transactions.
type Transaction struct {
	ID             TransactionID   `json:"id"`
	UserID         UserID          `json:"user_id"`
	OrganizationID *OrganizationID `json:"organization_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Type           TransactionType `json:"type"`
	Description    string          `json:"description"`
	Tags           []string        `json:"tags"`
	Date           time.Time       `json:"date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AmountFits reports whether d can be stored as a BSON Decimal128: at most
// 34 significant digits and an exponent within the Decimal128 range.
func AmountFits(d decimal.Decimal) bool {
	_, err := primitive.ParseDecimal128(d.String())
	return err == nil
}

// Personal reports whether the transaction has no organization scope.
func (t Transaction) Personal() bool {
	return t.OrganizationID == nil
}

// MonthlyStats aggregates transactions for one calendar month.
type MonthlyStats struct {
	TotalSpent       decimal.Decimal `json:"total_spent"`
	TotalEarned      decimal.Decimal `json:"total_earned"`
	TransactionCount int             `json:"transaction_count"`
}

// Scope selects either one user's personal transactions or every
// transaction of one organization.
type Scope struct {
	UserID         UserID
	OrganizationID *OrganizationID
}

// PersonalScope selects transactions of u that have no organization.
func PersonalScope(u UserID) Scope {
	return Scope{UserID: u}
}

// OrganizationScope selects all transactions recorded in org.
func OrganizationScope(org OrganizationID) Scope {
	return Scope{OrganizationID: &org}
}

// Matches reports whether t falls inside the scope.
func (s Scope) Matches(t Transaction) bool {
	if s.OrganizationID != nil {
		return t.OrganizationID != nil && *t.OrganizationID == *s.OrganizationID
	}
	return t.OrganizationID == nil && t.UserID == s.UserID
}

// Label is "organization" or "personal".
func (s Scope) Label() string {
	if s.OrganizationID != nil {
		return "organization"
	}
	return "personal"
}

package transactions

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marufbinsalim/walletree/internal/app/ledger"
	"github.com/marufbinsalim/walletree/internal/app/system/httpjson"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"github.com/shopspring/decimal"
)

// transactionFields are the fields a caller may set on create and update.
type transactionFields struct {
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Type        string           `json:"type" validate:"required,oneof=earning spending"`
	Description string           `json:"description" validate:"max=500"`
	Tags        []string         `json:"tags" validate:"dive,max=64"`
	Date        time.Time        `json:"date" validate:"required"`
}

func (f transactionFields) input() ledger.TransactionInput {
	return ledger.TransactionInput{
		Amount:      *f.Amount,
		Type:        models.TransactionType(f.Type),
		Description: f.Description,
		Tags:        f.Tags,
		Date:        f.Date,
	}
}

type createRequest struct {
	OrganizationID *models.OrganizationID `json:"organization_id"`
	transactionFields
}

type updateRequest struct {
	transactionFields
}

// orgScope reads the optional organization_id query parameter.
func orgScope(r *http.Request) (*models.OrganizationID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("organization_id"))
	if raw == "" {
		return nil, nil
	}
	id, err := httpjson.ParseID(raw, "organization_id", models.ParseOrganizationID)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func txIDParam(r *http.Request) (models.TransactionID, error) {
	return httpjson.ParseID(chi.URLParam(r, "id"), "transaction id", models.ParseTransactionID)
}

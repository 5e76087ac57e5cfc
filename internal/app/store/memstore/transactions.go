package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/marufbinsalim/walletree/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
)

type Transactions struct{ db *DB }

func cloneTx(t models.Transaction) models.Transaction {
	tags := make([]string, len(t.Tags))
	copy(tags, t.Tags)
	t.Tags = tags
	if t.OrganizationID != nil {
		org := *t.OrganizationID
		t.OrganizationID = &org
	}
	return t
}

func (s *Transactions) Create(_ context.Context, t models.Transaction) (models.Transaction, error) {
	if t.ID.IsZero() {
		t.ID = models.NewTransactionID()
	}
	t = cloneTx(t)
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.txs[t.ID] = t
	return cloneTx(t), nil
}

func (s *Transactions) GetByID(_ context.Context, id models.TransactionID) (models.Transaction, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	t, ok := s.db.txs[id]
	if !ok {
		return models.Transaction{}, mongo.ErrNoDocuments
	}
	return cloneTx(t), nil
}

func (s *Transactions) List(_ context.Context, scope models.Scope) ([]models.Transaction, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	out := []models.Transaction{}
	for _, t := range s.db.txs {
		if scope.Matches(t) {
			out = append(out, cloneTx(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out, nil
}

func (s *Transactions) Totals(_ context.Context, scope models.Scope, from, to time.Time) (models.MonthlyStats, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	stats := models.MonthlyStats{TotalSpent: decimal.Zero, TotalEarned: decimal.Zero}
	for _, t := range s.db.txs {
		if !scope.Matches(t) || t.Date.Before(from) || !t.Date.Before(to) {
			continue
		}
		switch t.Type {
		case models.Spending:
			stats.TotalSpent = stats.TotalSpent.Add(t.Amount)
		case models.Earning:
			stats.TotalEarned = stats.TotalEarned.Add(t.Amount)
		}
		stats.TransactionCount++
	}
	return stats, nil
}

func (s *Transactions) Update(_ context.Context, t models.Transaction) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cur, ok := s.db.txs[t.ID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	upd := cloneTx(t)
	cur.Amount = upd.Amount
	cur.Type = upd.Type
	cur.Description = upd.Description
	cur.Tags = upd.Tags
	cur.Date = upd.Date
	cur.UpdatedAt = upd.UpdatedAt
	s.db.txs[t.ID] = cur
	return nil
}

func (s *Transactions) Delete(_ context.Context, id models.TransactionID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.txs[id]; !ok {
		return 0, nil
	}
	delete(s.db.txs, id)
	return 1, nil
}

func (s *Transactions) DeleteByOrg(_ context.Context, org models.OrganizationID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for id, t := range s.db.txs {
		if t.OrganizationID != nil && *t.OrganizationID == org {
			delete(s.db.txs, id)
			n++
		}
	}
	return n, nil
}

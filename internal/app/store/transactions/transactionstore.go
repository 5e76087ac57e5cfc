// internal/app/store/transactions/transactionstore.go
package transactionstore

import (
	"context"
	"fmt"
	"time"

	"github.com/marufbinsalim/walletree/internal/app/system/indexes"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists transactions. Amounts are stored as Decimal128 so totals
// are summed server-side without float rounding.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.TransactionsCollection)}
}

type txDoc struct {
	ID             primitive.ObjectID   `bson:"_id"`
	UserID         primitive.ObjectID   `bson:"user_id"`
	OrganizationID *primitive.ObjectID  `bson:"organization_id"`
	Amount         primitive.Decimal128 `bson:"amount"`
	Type           string               `bson:"type"`
	Description    string               `bson:"description"`
	Tags           []string             `bson:"tags"`
	Date           primitive.DateTime   `bson:"date"`
	CreatedAt      primitive.DateTime   `bson:"created_at"`
	UpdatedAt      primitive.DateTime   `bson:"updated_at"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("amount %s: %w", d.String(), err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(v.String())
}

func toDoc(t models.Transaction) (txDoc, error) {
	amt, err := toDecimal128(t.Amount)
	if err != nil {
		return txDoc{}, err
	}
	d := txDoc{
		ID:          primitive.ObjectID(t.ID),
		UserID:      primitive.ObjectID(t.UserID),
		Amount:      amt,
		Type:        string(t.Type),
		Description: t.Description,
		Tags:        t.Tags,
		Date:        primitive.NewDateTimeFromTime(t.Date),
		CreatedAt:   primitive.NewDateTimeFromTime(t.CreatedAt),
		UpdatedAt:   primitive.NewDateTimeFromTime(t.UpdatedAt),
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if t.OrganizationID != nil {
		oid := primitive.ObjectID(*t.OrganizationID)
		d.OrganizationID = &oid
	}
	return d, nil
}

func (d txDoc) model() (models.Transaction, error) {
	amt, err := fromDecimal128(d.Amount)
	if err != nil {
		return models.Transaction{}, err
	}
	t := models.Transaction{
		ID:          models.TransactionID(d.ID),
		UserID:      models.UserID(d.UserID),
		Amount:      amt,
		Type:        models.TransactionType(d.Type),
		Description: d.Description,
		Tags:        d.Tags,
		Date:        d.Date.Time().UTC(),
		CreatedAt:   d.CreatedAt.Time().UTC(),
		UpdatedAt:   d.UpdatedAt.Time().UTC(),
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if d.OrganizationID != nil {
		org := models.OrganizationID(*d.OrganizationID)
		t.OrganizationID = &org
	}
	return t, nil
}

func scopeFilter(s models.Scope) bson.M {
	if s.OrganizationID != nil {
		return bson.M{"organization_id": primitive.ObjectID(*s.OrganizationID)}
	}
	// null matches both explicit null and a missing field
	return bson.M{"user_id": primitive.ObjectID(s.UserID), "organization_id": nil}
}

// Create inserts t, assigning an ID if unset.
func (s *Store) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	if t.ID.IsZero() {
		t.ID = models.NewTransactionID()
	}
	doc, err := toDoc(t)
	if err != nil {
		return models.Transaction{}, err
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

// GetByID returns mongo.ErrNoDocuments when absent.
func (s *Store) GetByID(ctx context.Context, id models.TransactionID) (models.Transaction, error) {
	var d txDoc
	if err := s.c.FindOne(ctx, bson.M{"_id": primitive.ObjectID(id)}).Decode(&d); err != nil {
		return models.Transaction{}, err
	}
	return d.model()
}

// List returns the transactions in scope, most recent date first.
func (s *Store) List(ctx context.Context, scope models.Scope) ([]models.Transaction, error) {
	cur, err := s.c.Find(ctx, scopeFilter(scope),
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []txDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, len(docs))
	for _, d := range docs {
		t, err := d.model()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Totals sums amounts per type for transactions in scope dated in [from, to).
func (s *Store) Totals(ctx context.Context, scope models.Scope, from, to time.Time) (models.MonthlyStats, error) {
	match := scopeFilter(scope)
	match["date"] = bson.M{
		"$gte": primitive.NewDateTimeFromTime(from),
		"$lt":  primitive.NewDateTimeFromTime(to),
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$type"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return models.MonthlyStats{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Type  string               `bson:"_id"`
		Total primitive.Decimal128 `bson:"total"`
		Count int                  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return models.MonthlyStats{}, err
	}

	stats := models.MonthlyStats{TotalSpent: decimal.Zero, TotalEarned: decimal.Zero}
	for _, r := range rows {
		total, err := fromDecimal128(r.Total)
		if err != nil {
			return models.MonthlyStats{}, err
		}
		switch models.TransactionType(r.Type) {
		case models.Spending:
			stats.TotalSpent = stats.TotalSpent.Add(total)
		case models.Earning:
			stats.TotalEarned = stats.TotalEarned.Add(total)
		}
		stats.TransactionCount += r.Count
	}
	return stats, nil
}

// Update patches the mutable fields of t. Owner and organization never change.
// Returns mongo.ErrNoDocuments when no transaction matched.
func (s *Store) Update(ctx context.Context, t models.Transaction) error {
	amt, err := toDecimal128(t.Amount)
	if err != nil {
		return err
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	res, err := s.c.UpdateByID(ctx, primitive.ObjectID(t.ID), bson.M{"$set": bson.M{
		"amount":      amt,
		"type":        string(t.Type),
		"description": t.Description,
		"tags":        tags,
		"date":        primitive.NewDateTimeFromTime(t.Date),
		"updated_at":  primitive.NewDateTimeFromTime(t.UpdatedAt),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a transaction by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id models.TransactionID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": primitive.ObjectID(id)})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByOrg removes every transaction of org.
func (s *Store) DeleteByOrg(ctx context.Context, org models.OrganizationID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"organization_id": primitive.ObjectID(org)})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

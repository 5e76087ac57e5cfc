// internal/app/store/organizations/organizationstore.go
package organizationstore

import (
	"context"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/marufbinsalim/walletree/internal/app/system/indexes"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.OrganizationsCollection)}
}

type orgDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	NameCI      string             `bson:"name_ci"`
	Description string             `bson:"description,omitempty"`
	OwnerID     primitive.ObjectID `bson:"owner_id"`
	CreatedAt   primitive.DateTime `bson:"created_at"`
	UpdatedAt   primitive.DateTime `bson:"updated_at"`
}

func toDoc(o models.Organization) orgDoc {
	return orgDoc{
		ID:          primitive.ObjectID(o.ID),
		Name:        o.Name,
		NameCI:      o.NameCI,
		Description: o.Description,
		OwnerID:     primitive.ObjectID(o.OwnerID),
		CreatedAt:   primitive.NewDateTimeFromTime(o.CreatedAt),
		UpdatedAt:   primitive.NewDateTimeFromTime(o.UpdatedAt),
	}
}

func (d orgDoc) model() models.Organization {
	return models.Organization{
		ID:          models.OrganizationID(d.ID),
		Name:        d.Name,
		NameCI:      d.NameCI,
		Description: d.Description,
		OwnerID:     models.UserID(d.OwnerID),
		CreatedAt:   d.CreatedAt.Time().UTC(),
		UpdatedAt:   d.UpdatedAt.Time().UTC(),
	}
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]models.Organization, error) {
	defer cur.Close(ctx)
	var docs []orgDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Organization, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

// Create inserts org, assigning an ID if unset. NameCI is derived from Name.
func (s *Store) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	if org.ID.IsZero() {
		org.ID = models.NewOrganizationID()
	}
	org.NameCI = text.Fold(org.Name)
	if _, err := s.c.InsertOne(ctx, toDoc(org)); err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// GetByID returns mongo.ErrNoDocuments when absent.
func (s *Store) GetByID(ctx context.Context, id models.OrganizationID) (models.Organization, error) {
	var d orgDoc
	if err := s.c.FindOne(ctx, bson.M{"_id": primitive.ObjectID(id)}).Decode(&d); err != nil {
		return models.Organization{}, err
	}
	return d.model(), nil
}

// GetByIDs loads organizations sorted by folded name.
func (s *Store) GetByIDs(ctx context.Context, ids []models.OrganizationID) ([]models.Organization, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oids = append(oids, primitive.ObjectID(id))
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": oids}},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur)
}

// ListByOwner returns organizations owned by owner sorted by folded name.
func (s *Store) ListByOwner(ctx context.Context, owner models.UserID) ([]models.Organization, error) {
	cur, err := s.c.Find(ctx, bson.M{"owner_id": primitive.ObjectID(owner)},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur)
}

// Update patches name, description and updated_at. Ownership is immutable.
// Returns mongo.ErrNoDocuments when no organization matched.
func (s *Store) Update(ctx context.Context, org models.Organization) error {
	res, err := s.c.UpdateByID(ctx, primitive.ObjectID(org.ID), bson.M{"$set": bson.M{
		"name":        org.Name,
		"name_ci":     text.Fold(org.Name),
		"description": org.Description,
		"updated_at":  primitive.NewDateTimeFromTime(org.UpdatedAt),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an organization by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id models.OrganizationID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": primitive.ObjectID(id)})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

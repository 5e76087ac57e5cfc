// internal/app/store/invites/invitestore.go
package invitestore

import (
	"context"

	"github.com/marufbinsalim/walletree/internal/app/system/indexes"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists organization invites. Invites are the source of truth for
// membership: an accepted invite for (org, email) makes that user a member.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.InvitesCollection)}
}

type inviteDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	OrganizationID primitive.ObjectID `bson:"organization_id"`
	Email          string             `bson:"email"`
	Role           string             `bson:"role"`
	Status         string             `bson:"status"`
	InvitedBy      primitive.ObjectID `bson:"invited_by"`
	InvitedAt      primitive.DateTime `bson:"invited_at"`
	ExpiresAt      primitive.DateTime `bson:"expires_at"`
}

func (d inviteDoc) model() models.Invite {
	return models.Invite{
		ID:             models.InviteID(d.ID),
		OrganizationID: models.OrganizationID(d.OrganizationID),
		Email:          d.Email,
		Role:           models.Role(d.Role),
		Status:         models.InviteStatus(d.Status),
		InvitedBy:      models.UserID(d.InvitedBy),
		InvitedAt:      d.InvitedAt.Time().UTC(),
		ExpiresAt:      d.ExpiresAt.Time().UTC(),
	}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "invited_at", Value: -1}, {Key: "_id", Value: -1}})

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Invite, error) {
	cur, err := s.c.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []inviteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Invite, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

// Create inserts inv, assigning an ID if unset.
func (s *Store) Create(ctx context.Context, inv models.Invite) (models.Invite, error) {
	if inv.ID.IsZero() {
		inv.ID = models.NewInviteID()
	}
	doc := inviteDoc{
		ID:             primitive.ObjectID(inv.ID),
		OrganizationID: primitive.ObjectID(inv.OrganizationID),
		Email:          inv.Email,
		Role:           string(inv.Role),
		Status:         string(inv.Status),
		InvitedBy:      primitive.ObjectID(inv.InvitedBy),
		InvitedAt:      primitive.NewDateTimeFromTime(inv.InvitedAt),
		ExpiresAt:      primitive.NewDateTimeFromTime(inv.ExpiresAt),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return models.Invite{}, err
	}
	return inv, nil
}

// GetByID returns mongo.ErrNoDocuments when absent.
func (s *Store) GetByID(ctx context.Context, id models.InviteID) (models.Invite, error) {
	var d inviteDoc
	if err := s.c.FindOne(ctx, bson.M{"_id": primitive.ObjectID(id)}).Decode(&d); err != nil {
		return models.Invite{}, err
	}
	return d.model(), nil
}

// FindByOrgEmailStatus returns the newest invite matching all three fields.
func (s *Store) FindByOrgEmailStatus(ctx context.Context, org models.OrganizationID, email string, status models.InviteStatus) (models.Invite, error) {
	var d inviteDoc
	err := s.c.FindOne(ctx, bson.M{
		"organization_id": primitive.ObjectID(org),
		"email":           email,
		"status":          string(status),
	}, options.FindOne().SetSort(bson.D{{Key: "invited_at", Value: -1}})).Decode(&d)
	if err != nil {
		return models.Invite{}, err
	}
	return d.model(), nil
}

// ListByOrg returns every invite of org, newest first.
func (s *Store) ListByOrg(ctx context.Context, org models.OrganizationID) ([]models.Invite, error) {
	return s.find(ctx, bson.M{"organization_id": primitive.ObjectID(org)})
}

// ListByOrgStatus returns invites of org in status, newest first.
func (s *Store) ListByOrgStatus(ctx context.Context, org models.OrganizationID, status models.InviteStatus) ([]models.Invite, error) {
	return s.find(ctx, bson.M{"organization_id": primitive.ObjectID(org), "status": string(status)})
}

// ListByEmailStatus returns invites addressed to email in status, newest first.
func (s *Store) ListByEmailStatus(ctx context.Context, email string, status models.InviteStatus) ([]models.Invite, error) {
	return s.find(ctx, bson.M{"email": email, "status": string(status)})
}

// SetStatus moves an invite from one status to another. The update only
// applies while the stored status still equals from; otherwise
// mongo.ErrNoDocuments is returned and nothing changes.
func (s *Store) SetStatus(ctx context.Context, id models.InviteID, from, to models.InviteStatus) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": primitive.ObjectID(id), "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to)}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteByOrgEmail removes every invite for (org, email) regardless of status.
func (s *Store) DeleteByOrgEmail(ctx context.Context, org models.OrganizationID, email string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"organization_id": primitive.ObjectID(org), "email": email})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByOrg removes every invite of org.
func (s *Store) DeleteByOrg(ctx context.Context, org models.OrganizationID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"organization_id": primitive.ObjectID(org)})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

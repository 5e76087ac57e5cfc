// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/marufbinsalim/walletree/internal/app/system/indexes"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateEmail is returned when a different subject already owns the email.
var ErrDuplicateEmail = errors.New("a user with this email already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.UsersCollection)}
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Subject   string             `bson:"subject"`
	Email     string             `bson:"email"`
	FirstName string             `bson:"first_name,omitempty"`
	LastName  string             `bson:"last_name,omitempty"`
	ImageURL  string             `bson:"image_url,omitempty"`
	CreatedAt primitive.DateTime `bson:"created_at"`
	UpdatedAt primitive.DateTime `bson:"updated_at"`
}

func (d userDoc) model() models.User {
	return models.User{
		ID:        models.UserID(d.ID),
		Subject:   d.Subject,
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		ImageURL:  d.ImageURL,
		CreatedAt: d.CreatedAt.Time().UTC(),
		UpdatedAt: d.UpdatedAt.Time().UTC(),
	}
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var d userDoc
	if err := s.c.FindOne(ctx, filter).Decode(&d); err != nil {
		return models.User{}, err
	}
	return d.model(), nil
}

// GetByID returns mongo.ErrNoDocuments when absent.
func (s *Store) GetByID(ctx context.Context, id models.UserID) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": primitive.ObjectID(id)})
}

// GetBySubject looks a user up by identity-provider subject.
func (s *Store) GetBySubject(ctx context.Context, subject string) (models.User, error) {
	return s.findOne(ctx, bson.M{"subject": subject})
}

// GetByEmail expects an already-normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// GetByEmails loads every user whose email is in emails. Order is unspecified.
func (s *Store) GetByEmails(ctx context.Context, emails []string) ([]models.User, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"email": bson.M{"$in": emails}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

// Upsert creates the user keyed by Subject if absent and otherwise refreshes
// the profile fields. Subject, email and created_at are written only on insert.
func (s *Store) Upsert(ctx context.Context, u models.User) (models.User, error) {
	set := bson.M{"updated_at": primitive.NewDateTimeFromTime(u.UpdatedAt)}
	if u.FirstName != "" {
		set["first_name"] = u.FirstName
	}
	if u.LastName != "" {
		set["last_name"] = u.LastName
	}
	if u.ImageURL != "" {
		set["image_url"] = u.ImageURL
	}

	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"subject":    u.Subject,
			"email":      u.Email,
			"created_at": primitive.NewDateTimeFromTime(u.CreatedAt),
		},
		"$set": set,
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var d userDoc
	err := s.c.FindOneAndUpdate(ctx, bson.M{"subject": u.Subject}, update, opts).Decode(&d)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return d.model(), nil
}

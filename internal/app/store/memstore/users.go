package memstore

import (
	"context"

	userstore "github.com/marufbinsalim/walletree/internal/app/store/users"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateEmail is the Mongo store's sentinel so callers match one error.
var ErrDuplicateEmail = userstore.ErrDuplicateEmail

type Users struct{ db *DB }

func (s *Users) find(match func(models.User) bool) (models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	for _, u := range s.db.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, mongo.ErrNoDocuments
}

func (s *Users) GetByID(_ context.Context, id models.UserID) (models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	u, ok := s.db.users[id]
	if !ok {
		return models.User{}, mongo.ErrNoDocuments
	}
	return u, nil
}

func (s *Users) GetBySubject(_ context.Context, subject string) (models.User, error) {
	return s.find(func(u models.User) bool { return u.Subject == subject })
}

func (s *Users) GetByEmail(_ context.Context, email string) (models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s *Users) GetByEmails(_ context.Context, emails []string) ([]models.User, error) {
	want := make(map[string]bool, len(emails))
	for _, e := range emails {
		want[e] = true
	}
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	var out []models.User
	for _, u := range s.db.users {
		if want[u.Email] {
			out = append(out, u)
		}
	}
	return out, nil
}

// Upsert follows the Mongo store: identity fields are written on insert only.
func (s *Users) Upsert(_ context.Context, u models.User) (models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for id, existing := range s.db.users {
		if existing.Subject != u.Subject {
			continue
		}
		if u.FirstName != "" {
			existing.FirstName = u.FirstName
		}
		if u.LastName != "" {
			existing.LastName = u.LastName
		}
		if u.ImageURL != "" {
			existing.ImageURL = u.ImageURL
		}
		existing.UpdatedAt = u.UpdatedAt
		s.db.users[id] = existing
		return existing, nil
	}

	for _, existing := range s.db.users {
		if existing.Email == u.Email {
			return models.User{}, ErrDuplicateEmail
		}
	}
	u.ID = models.NewUserID()
	s.db.users[u.ID] = u
	return u, nil
}

package ledger

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/marufbinsalim/walletree/internal/app/store/users"
	"github.com/marufbinsalim/walletree/internal/app/system/apperr"
	"github.com/marufbinsalim/walletree/internal/app/system/identity"
	"github.com/marufbinsalim/walletree/internal/app/system/normalize"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"go.uber.org/zap"
)

// Profile carries the optional fields a client may refresh on sign-in.
// Empty fields fall back to the identity token claims.
type Profile struct {
	FirstName string
	LastName  string
	ImageURL  string
}

// ResolveCurrentUser returns the caller's user record. It never creates one.
func (s *Service) ResolveCurrentUser(ctx context.Context) (models.User, error) {
	return s.currentUser(ctx)
}

// SyncUser creates the caller's record on first sign-in and refreshes the
// profile fields afterwards. Safe to call on every sign-in.
func (s *Service) SyncUser(ctx context.Context, p Profile) (models.User, error) {
	id, ok := identity.FromContext(ctx)
	if !ok {
		return models.User{}, apperr.ErrUnauthenticated
	}
	email := normalize.Email(id.Email)
	if email == "" {
		return models.User{}, apperr.Invalid("identity has no email")
	}

	first := firstNonEmpty(normalize.Name(p.FirstName), normalize.Name(id.GivenName))
	last := firstNonEmpty(normalize.Name(p.LastName), normalize.Name(id.FamilyName))
	image := firstNonEmpty(p.ImageURL, id.Picture)

	now := s.now().UTC()
	u, err := s.users.Upsert(ctx, models.User{
		Subject:   id.Subject,
		Email:     email,
		FirstName: first,
		LastName:  last,
		ImageURL:  image,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return models.User{}, apperr.Invalid("email is already registered to another account")
	}
	if err != nil {
		return models.User{}, fmt.Errorf("upsert user: %w", err)
	}

	s.log.Debug("user synced", zap.String("user_id", u.ID.Hex()), zap.String("subject", u.Subject))
	return u, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

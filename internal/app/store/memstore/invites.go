package memstore

import (
	"context"
	"sort"

	"github.com/marufbinsalim/walletree/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type Invites struct{ db *DB }

func (s *Invites) filter(match func(models.Invite) bool) []models.Invite {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	out := []models.Invite{}
	for _, inv := range s.db.invs {
		if match(inv) {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].InvitedAt.Equal(out[j].InvitedAt) {
			return out[i].InvitedAt.After(out[j].InvitedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out
}

func (s *Invites) Create(_ context.Context, inv models.Invite) (models.Invite, error) {
	if inv.ID.IsZero() {
		inv.ID = models.NewInviteID()
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.invs[inv.ID] = inv
	return inv, nil
}

func (s *Invites) GetByID(_ context.Context, id models.InviteID) (models.Invite, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	inv, ok := s.db.invs[id]
	if !ok {
		return models.Invite{}, mongo.ErrNoDocuments
	}
	return inv, nil
}

func (s *Invites) FindByOrgEmailStatus(_ context.Context, org models.OrganizationID, email string, status models.InviteStatus) (models.Invite, error) {
	found := s.filter(func(inv models.Invite) bool {
		return inv.OrganizationID == org && inv.Email == email && inv.Status == status
	})
	if len(found) == 0 {
		return models.Invite{}, mongo.ErrNoDocuments
	}
	return found[0], nil
}

func (s *Invites) ListByOrg(_ context.Context, org models.OrganizationID) ([]models.Invite, error) {
	return s.filter(func(inv models.Invite) bool { return inv.OrganizationID == org }), nil
}

func (s *Invites) ListByOrgStatus(_ context.Context, org models.OrganizationID, status models.InviteStatus) ([]models.Invite, error) {
	return s.filter(func(inv models.Invite) bool { return inv.OrganizationID == org && inv.Status == status }), nil
}

func (s *Invites) ListByEmailStatus(_ context.Context, email string, status models.InviteStatus) ([]models.Invite, error) {
	return s.filter(func(inv models.Invite) bool { return inv.Email == email && inv.Status == status }), nil
}

// SetStatus is conditional on the current status, like the Mongo store.
func (s *Invites) SetStatus(_ context.Context, id models.InviteID, from, to models.InviteStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	inv, ok := s.db.invs[id]
	if !ok || inv.Status != from {
		return mongo.ErrNoDocuments
	}
	inv.Status = to
	s.db.invs[id] = inv
	return nil
}

func (s *Invites) deleteWhere(match func(models.Invite) bool) int64 {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for id, inv := range s.db.invs {
		if match(inv) {
			delete(s.db.invs, id)
			n++
		}
	}
	return n
}

func (s *Invites) DeleteByOrgEmail(_ context.Context, org models.OrganizationID, email string) (int64, error) {
	return s.deleteWhere(func(inv models.Invite) bool { return inv.OrganizationID == org && inv.Email == email }), nil
}

func (s *Invites) DeleteByOrg(_ context.Context, org models.OrganizationID) (int64, error) {
	return s.deleteWhere(func(inv models.Invite) bool { return inv.OrganizationID == org }), nil
}

package memstore

import (
	"context"
	"sort"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type Organizations struct{ db *DB }

func sortOrgs(orgs []models.Organization) {
	sort.Slice(orgs, func(i, j int) bool {
		if orgs[i].NameCI != orgs[j].NameCI {
			return orgs[i].NameCI < orgs[j].NameCI
		}
		return orgs[i].ID.Hex() < orgs[j].ID.Hex()
	})
}

func (s *Organizations) Create(_ context.Context, org models.Organization) (models.Organization, error) {
	if org.ID.IsZero() {
		org.ID = models.NewOrganizationID()
	}
	org.NameCI = text.Fold(org.Name)
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.orgs[org.ID] = org
	return org, nil
}

func (s *Organizations) GetByID(_ context.Context, id models.OrganizationID) (models.Organization, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	org, ok := s.db.orgs[id]
	if !ok {
		return models.Organization{}, mongo.ErrNoDocuments
	}
	return org, nil
}

func (s *Organizations) GetByIDs(_ context.Context, ids []models.OrganizationID) ([]models.Organization, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	var out []models.Organization
	seen := map[models.OrganizationID]bool{}
	for _, id := range ids {
		if org, ok := s.db.orgs[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, org)
		}
	}
	sortOrgs(out)
	return out, nil
}

func (s *Organizations) ListByOwner(_ context.Context, owner models.UserID) ([]models.Organization, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	var out []models.Organization
	for _, org := range s.db.orgs {
		if org.OwnerID == owner {
			out = append(out, org)
		}
	}
	sortOrgs(out)
	return out, nil
}

func (s *Organizations) Update(_ context.Context, org models.Organization) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cur, ok := s.db.orgs[org.ID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	cur.Name = org.Name
	cur.NameCI = text.Fold(org.Name)
	cur.Description = org.Description
	cur.UpdatedAt = org.UpdatedAt
	s.db.orgs[org.ID] = cur
	return nil
}

func (s *Organizations) Delete(_ context.Context, id models.OrganizationID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.orgs[id]; !ok {
		return 0, nil
	}
	delete(s.db.orgs, id)
	return 1, nil
}

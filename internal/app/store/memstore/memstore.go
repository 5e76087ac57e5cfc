// Package memstore is an in-process backend implementing the same contracts
// as the Mongo stores, including mongo.ErrNoDocuments for missing records.
// It backs store_backend=memory and the service and handler tests.
package memstore

import (
	"context"
	"sync"

	"github.com/marufbinsalim/walletree/internal/domain/models"
)

// DB holds every collection behind one lock.
type DB struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	users map[models.UserID]models.User
	orgs  map[models.OrganizationID]models.Organization
	invs  map[models.InviteID]models.Invite
	txs   map[models.TransactionID]models.Transaction
}

// New returns an empty DB.
func New() *DB {
	return &DB{
		users: map[models.UserID]models.User{},
		orgs:  map[models.OrganizationID]models.Organization{},
		invs:  map[models.InviteID]models.Invite{},
		txs:   map[models.TransactionID]models.Transaction{},
	}
}

func (db *DB) Users() *Users                 { return &Users{db: db} }
func (db *DB) Organizations() *Organizations { return &Organizations{db: db} }
func (db *DB) Invites() *Invites             { return &Invites{db: db} }
func (db *DB) Transactions() *Transactions   { return &Transactions{db: db} }

// InTx runs fn with writes from other InTx callers excluded. If fn fails,
// every collection is restored to its state before fn ran.
func (db *DB) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	snap := db.snapshot()
	if err := fn(ctx); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

// Ping satisfies the health checker.
func (db *DB) Ping(context.Context) error {
	return nil
}

type snapshot struct {
	users map[models.UserID]models.User
	orgs  map[models.OrganizationID]models.Organization
	invs  map[models.InviteID]models.Invite
	txs   map[models.TransactionID]models.Transaction
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (db *DB) snapshot() snapshot {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return snapshot{
		users: copyMap(db.users),
		orgs:  copyMap(db.orgs),
		invs:  copyMap(db.invs),
		txs:   copyMap(db.txs),
	}
}

func (db *DB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users, db.orgs, db.invs, db.txs = s.users, s.orgs, s.invs, s.txs
}

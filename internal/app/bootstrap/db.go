// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/marufbinsalim/walletree/internal/app/features/health"
	"github.com/marufbinsalim/walletree/internal/app/ledger"
	invitestore "github.com/marufbinsalim/walletree/internal/app/store/invites"
	"github.com/marufbinsalim/walletree/internal/app/store/memstore"
	organizationstore "github.com/marufbinsalim/walletree/internal/app/store/organizations"
	transactionstore "github.com/marufbinsalim/walletree/internal/app/store/transactions"
	userstore "github.com/marufbinsalim/walletree/internal/app/store/users"
	"github.com/marufbinsalim/walletree/internal/app/system/indexes"
	"github.com/marufbinsalim/walletree/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB builds the store for the configured backend. For Mongo it
// connects, pings the primary and wires the per-collection stores.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	if appCfg.StoreBackend == BackendMemory {
		logger.Info("using in-memory store backend")
		return memoryDeps(memstore.New()), nil
	}

	timeout := appCfg.MongoConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize).
		SetAppName("walletree")

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize),
		zap.Uint64("min_pool_size", appCfg.MongoMinPoolSize))

	return mongoDeps(client, client.Database(appCfg.MongoDatabase), logger), nil
}

func mongoDeps(client *mongo.Client, db *mongo.Database, logger *zap.Logger) DBDeps {
	return DBDeps{
		Backend:       BackendMongo,
		MongoClient:   client,
		MongoDatabase: db,
		Repos: ledger.Repos{
			Users:         userstore.New(db),
			Organizations: organizationstore.New(db),
			Invites:       invitestore.New(db),
			Transactions:  transactionstore.New(db),
			Tx:            txn.Runner{DB: db, Log: logger},
		},
		Ping:   health.MongoPinger(client),
		tracer: &tracerState{},
	}
}

func memoryDeps(m *memstore.DB) DBDeps {
	return DBDeps{
		Backend: BackendMemory,
		Repos: ledger.Repos{
			Users:         m.Users(),
			Organizations: m.Organizations(),
			Invites:       m.Invites(),
			Transactions:  m.Transactions(),
			Tx:            m,
		},
		Ping:   m,
		tracer: &tracerState{},
	}
}

// EnsureSchema creates the Mongo indexes. The memory backend has none.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("indexes ensured", zap.String("database", deps.MongoDatabase.Name()))
	return nil
}

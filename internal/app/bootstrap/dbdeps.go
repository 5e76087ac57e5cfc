// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/marufbinsalim/walletree/internal/app/features/health"
	"github.com/marufbinsalim/walletree/internal/app/ledger"
	"github.com/marufbinsalim/walletree/internal/app/system/tracing"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the store clients and repositories built once in ConnectDB.
// The Mongo fields are nil for the memory backend.
type DBDeps struct {
	Backend       string
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Repos ledger.Repos
	Ping  health.Pinger

	// set by Startup, run by Shutdown
	tracer *tracerState
}

type tracerState struct {
	shutdown tracing.ShutdownFunc
}

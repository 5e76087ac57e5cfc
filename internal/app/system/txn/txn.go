// Package txn runs multi-collection writes inside a Mongo transaction when the
// deployment supports one, and falls back to running them directly otherwise.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction on db's client. If the server rejects
// sessions or transactions (standalone mongod), fn runs once without one.
// fn must be safe to run on the fallback path with the parent context.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			logFallback(log, err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	opts := options.Transaction().
		SetReadPreference(readpref.Primary()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, opts)
	if err != nil && IsNotSupported(err) {
		logFallback(log, err)
		return fn(ctx)
	}
	return err
}

// Runner adapts Run to an interface services can depend on.
type Runner struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// InTx runs fn via Run.
func (r Runner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return Run(ctx, r.DB, r.Log, fn)
}

func logFallback(log *zap.Logger, err error) {
	if log == nil {
		return
	}
	log.Debug("transactions not supported, running without", zap.Error(err))
}

// IsNotSupported reports whether err indicates the server cannot run
// sessions or multi-document transactions.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}
	s := strings.ToLower(err.Error())
	pairs := [][2]string{
		{"transaction", "replica set"},
		{"session", "not supported"},
		{"transaction", "session"},
		{"illegal", "operation"},
	}
	for _, p := range pairs {
		if strings.Contains(s, p[0]) && strings.Contains(s, p[1]) {
			return true
		}
	}
	return false
}

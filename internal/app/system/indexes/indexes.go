// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names shared by the Mongo stores.
const (
	UsersCollection         = "users"
	OrganizationsCollection = "organizations"
	InvitesCollection       = "organization_invites"
	TransactionsCollection  = "transactions"
)

/*
EnsureAll is called from the EnsureSchema hook. Each ensure* function is
idempotent; errors are aggregated so every problem shows up in one startup log.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, UsersCollection+": "+err.Error())
	}
	if err := ensureOrganizations(ctx, db); err != nil {
		problems = append(problems, OrganizationsCollection+": "+err.Error())
	}
	if err := ensureInvites(ctx, db); err != nil {
		problems = append(problems, InvitesCollection+": "+err.Error())
	}
	if err := ensureTransactions(ctx, db); err != nil {
		problems = append(problems, TransactionsCollection+": "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(UsersCollection), []mongo.IndexModel{
		// identity lookups resolve by provider subject
		{
			Keys:    bson.D{{Key: "subject", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_subject"),
		},
		// invites resolve recipients by normalized email
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
	})
}

func ensureOrganizations(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(OrganizationsCollection), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_orgs_owner_nameci"),
		},
	})
}

func ensureInvites(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(InvitesCollection), []mongo.IndexModel{
		// createInvite clears prior invites for (org, email)
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_invites_org_email"),
		},
		// pending invites for the current user, and accepted-membership checks
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_invites_email_status"),
		},
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "invited_at", Value: -1}},
			Options: options.Index().SetName("idx_invites_org_invitedat"),
		},
	})
}

func ensureTransactions(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(TransactionsCollection), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_tx_org_date"),
		},
		// personal views filter on user_id with organization_id = null
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "organization_id", Value: 1},
				{Key: "date", Value: -1},
			},
			Options: options.Index().SetName("idx_tx_user_org_date"),
		},
	})
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool {
	return b != nil && *b
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

// ensureIndexSet creates missing indexes, reuses matching ones, and drops and
// recreates indexes whose name or uniqueness differs from the desired model.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// Collection may not exist yet; CreateOne creates it.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		var name string
		var unique bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = boolVal(m.Options.Unique)
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if boolVal(ex.Unique) == unique && (name == "" || ex.Name == name) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
			zap.L().Info("dropped index for recreate",
				zap.String("collection", coll.Name()),
				zap.String("from", ex.Name),
				zap.String("to", name),
				zap.String("keys", sig))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && unique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			continue
		}
		zap.L().Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

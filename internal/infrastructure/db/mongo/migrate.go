package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. The unique
// email index is what turns a concurrent social-login insert race into a
// duplicate-key error rather than two accounts.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := db.Collection(userCollection)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "verification_token", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}

	history := db.Collection(loginHistoryCollection)
	_, err = history.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("ensure login history indexes: %w", err)
	}
	return nil
}

// BackfillRoles assigns the default role to any user document written before
// the role field existed. Run once at startup; this keeps the migration out
// of the read path.
func BackfillRoles(ctx context.Context, db *mongo.Database, defaultRole string) (int64, error) {
	res, err := db.Collection(userCollection).UpdateMany(ctx,
		bson.M{"$or": bson.A{
			bson.M{"role": bson.M{"$exists": false}},
			bson.M{"role": ""},
			bson.M{"role": nil},
		}},
		bson.M{"$set": bson.M{"role": defaultRole}},
	)
	if err != nil {
		return 0, fmt.Errorf("backfill roles: %w", err)
	}
	return res.ModifiedCount, nil
}

package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureIndexes creates the uniqueness and lookup indexes. The service
// layer pre-checks uniqueness for friendlier errors; these indexes are the
// actual guarantee. Pending signups also carry a TTL index keyed on the
// OTP deadline so abandoned signups clean themselves up.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.localAccounts().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create local account indexes: %w", err)
	}

	_, err = r.pendingSignups().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Grace period past the OTP deadline keeps the expired-code
			// error observable instead of turning into not-found.
			Keys:    bson.D{{Key: "otp_expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(24 * 60 * 60),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create pending signup indexes: %w", err)
	}

	_, err = r.googleAccounts().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
		},
		{
			// Unique only once a username is chosen; empty placeholders
			// must not collide with each other.
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"username_set": true}),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create google account indexes: %w", err)
	}

	return nil
}

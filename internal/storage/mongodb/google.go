package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/authhub/modules/auth"
	"github.com/dmitrymomot/authhub/modules/profile"
)

// CreateGoogleAccount inserts a Google-backed account with default profile
// fields, in the awaiting-username state.
func (r *Repository) CreateGoogleAccount(ctx context.Context, acct *auth.GoogleAccount) error {
	doc := googleAccountDoc{
		ID:          acct.ID.String(),
		GoogleID:    acct.GoogleID,
		Email:       acct.Email,
		Username:    acct.Username,
		UsernameSet: acct.UsernameSet,
		DisplayName: acct.DisplayName,
		AvatarURL:   acct.AvatarURL,
		Language:    profile.DefaultLanguage,
		Timezone:    profile.DefaultTimezone,
		Prefs:       defaultPrefsDoc(),
		CreatedAt:   acct.CreatedAt,
		UpdatedAt:   acct.CreatedAt,
	}

	if _, err := r.googleAccounts().InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert google account: %w", err)
	}
	return nil
}

func (r *Repository) GetGoogleAccountByID(ctx context.Context, id uuid.UUID) (*auth.GoogleAccount, error) {
	return r.findGoogleAccount(ctx, bson.M{"_id": id.String()})
}

func (r *Repository) GetGoogleAccountByGoogleID(ctx context.Context, googleID string) (*auth.GoogleAccount, error) {
	return r.findGoogleAccount(ctx, bson.M{"google_id": googleID})
}

func (r *Repository) GetGoogleAccountByEmail(ctx context.Context, email string) (*auth.GoogleAccount, error) {
	return r.findGoogleAccount(ctx, bson.M{"email": email})
}

func (r *Repository) GetGoogleAccountByUsername(ctx context.Context, username string) (*auth.GoogleAccount, error) {
	return r.findGoogleAccount(ctx, bson.M{"username": username, "username_set": true})
}

func (r *Repository) findGoogleAccount(ctx context.Context, filter bson.M) (*auth.GoogleAccount, error) {
	var doc googleAccountDoc
	if err := r.googleAccounts().FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find google account: %w", err)
	}
	return googleAccountFromDoc(doc)
}

func googleAccountFromDoc(doc googleAccountDoc) (*auth.GoogleAccount, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("malformed google account id %q: %w", doc.ID, err)
	}
	return &auth.GoogleAccount{
		ID:          id,
		GoogleID:    doc.GoogleID,
		Email:       doc.Email,
		Username:    doc.Username,
		UsernameSet: doc.UsernameSet,
		DisplayName: doc.DisplayName,
		AvatarURL:   doc.AvatarURL,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

// UpdateGoogleProfile refreshes provider-sourced fields on every callback.
// The avatar is written only while the stored one is empty, so an avatar
// uploaded through the profile API is never clobbered by the provider.
func (r *Repository) UpdateGoogleProfile(ctx context.Context, id uuid.UUID, email, displayName, avatarURL string) error {
	res, err := r.googleAccounts().UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{
			"email":        email,
			"display_name": displayName,
			"updated_at":   time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update google profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return auth.ErrAccountNotFound
	}

	if avatarURL != "" {
		if _, err := r.googleAccounts().UpdateOne(ctx,
			bson.M{"_id": id.String(), "avatar_url": ""},
			bson.M{"$set": bson.M{"avatar_url": avatarURL}},
		); err != nil {
			return fmt.Errorf("failed to update google avatar: %w", err)
		}
	}
	return nil
}

// SetGoogleUsername flips the username exactly once; the filter on the
// flag makes the transition atomic under concurrent attempts.
func (r *Repository) SetGoogleUsername(ctx context.Context, id uuid.UUID, username string) error {
	res, err := r.googleAccounts().UpdateOne(ctx,
		bson.M{"_id": id.String(), "username_set": false},
		bson.M{"$set": bson.M{
			"username":     username,
			"username_set": true,
			"updated_at":   time.Now(),
		}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrUsernameTaken
		}
		return fmt.Errorf("failed to set google username: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetGoogleAccountByID(ctx, id); err != nil {
			return err
		}
		return auth.ErrUsernameAlreadySet
	}
	return nil
}

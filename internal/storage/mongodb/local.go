package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/authhub/modules/auth"
	"github.com/dmitrymomot/authhub/modules/profile"
)

// CreateLocalAccount inserts a verified account with default profile
// fields. A unique index violation maps back to the domain conflict.
func (r *Repository) CreateLocalAccount(ctx context.Context, acct *auth.LocalAccount) error {
	doc := localAccountDoc{
		ID:           acct.ID.String(),
		Username:     acct.Username,
		Email:        acct.Email,
		PasswordHash: acct.PasswordHash,
		DisplayName:  acct.DisplayName,
		AvatarURL:    acct.AvatarURL,
		Language:     profile.DefaultLanguage,
		Timezone:     profile.DefaultTimezone,
		Prefs:        defaultPrefsDoc(),
		CreatedAt:    acct.CreatedAt,
		UpdatedAt:    acct.CreatedAt,
	}

	if _, err := r.localAccounts().InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert local account: %w", err)
	}
	return nil
}

func (r *Repository) GetLocalAccountByID(ctx context.Context, id uuid.UUID) (*auth.LocalAccount, error) {
	return r.findLocalAccount(ctx, bson.M{"_id": id.String()})
}

func (r *Repository) GetLocalAccountByEmail(ctx context.Context, email string) (*auth.LocalAccount, error) {
	return r.findLocalAccount(ctx, bson.M{"email": email})
}

func (r *Repository) GetLocalAccountByUsername(ctx context.Context, username string) (*auth.LocalAccount, error) {
	return r.findLocalAccount(ctx, bson.M{"username": username})
}

func (r *Repository) findLocalAccount(ctx context.Context, filter bson.M) (*auth.LocalAccount, error) {
	var doc localAccountDoc
	if err := r.localAccounts().FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find local account: %w", err)
	}
	return localAccountFromDoc(doc)
}

func localAccountFromDoc(doc localAccountDoc) (*auth.LocalAccount, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("malformed local account id %q: %w", doc.ID, err)
	}
	return &auth.LocalAccount{
		ID:           id,
		Username:     doc.Username,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		DisplayName:  doc.DisplayName,
		AvatarURL:    doc.AvatarURL,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

// CreatePendingSignup inserts a pending record.
func (r *Repository) CreatePendingSignup(ctx context.Context, pending *auth.PendingSignup) error {
	doc := pendingSignupDoc{
		ID:           pending.ID.String(),
		Username:     pending.Username,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		OTP:          pending.OTP,
		OTPExpiresAt: pending.OTPExpiresAt,
		CreatedAt:    pending.CreatedAt,
	}

	if _, err := r.pendingSignups().InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert pending signup: %w", err)
	}
	return nil
}

func (r *Repository) GetPendingSignupByID(ctx context.Context, id uuid.UUID) (*auth.PendingSignup, error) {
	return r.findPendingSignup(ctx, bson.M{"_id": id.String()})
}

func (r *Repository) GetPendingSignupByEmail(ctx context.Context, email string) (*auth.PendingSignup, error) {
	return r.findPendingSignup(ctx, bson.M{"email": email})
}

func (r *Repository) GetPendingSignupByUsername(ctx context.Context, username string) (*auth.PendingSignup, error) {
	return r.findPendingSignup(ctx, bson.M{"username": username})
}

func (r *Repository) findPendingSignup(ctx context.Context, filter bson.M) (*auth.PendingSignup, error) {
	var doc pendingSignupDoc
	if err := r.pendingSignups().FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrPendingNotFound
		}
		return nil, fmt.Errorf("failed to find pending signup: %w", err)
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("malformed pending signup id %q: %w", doc.ID, err)
	}
	return &auth.PendingSignup{
		ID:           id,
		Username:     doc.Username,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		OTP:          doc.OTP,
		OTPExpiresAt: doc.OTPExpiresAt,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

// DeletePendingSignup removes a pending record. Deleting an absent record
// is not an error, matching how expiry cleanup behaves under races.
func (r *Repository) DeletePendingSignup(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pendingSignups().DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete pending signup: %w", err)
	}
	return nil
}

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

// GetProfile loads the profile view of either account type.
func (r *Repository) GetProfile(ctx context.Context, provider string, accountID uuid.UUID) (*profile.Profile, error) {
	switch provider {
	case auth.ProviderLocal:
		var doc localAccountDoc
		err := r.localAccounts().FindOne(ctx, bson.M{"_id": accountID.String()}).Decode(&doc)
		if err != nil {
			return nil, mapProfileErr(err)
		}
		return localProfile(doc)
	case auth.ProviderGoogle:
		var doc googleAccountDoc
		err := r.googleAccounts().FindOne(ctx, bson.M{"_id": accountID.String()}).Decode(&doc)
		if err != nil {
			return nil, mapProfileErr(err)
		}
		return googleProfile(doc)
	default:
		return nil, profile.ErrProfileNotFound
	}
}

// SaveProfile persists the mutable profile fields back onto the owning
// record. Identity fields (username, email, provider ids) are never
// written through this path.
func (r *Repository) SaveProfile(ctx context.Context, p *profile.Profile) error {
	update := bson.M{"$set": bson.M{
		"display_name": p.DisplayName,
		"bio":          p.Bio,
		"language":     p.Language,
		"timezone":     p.Timezone,
		"notification_prefs": notificationPrefsDoc{
			Newsletter: string(p.Prefs.Newsletter),
			Updates:    p.Prefs.Updates,
			Offers:     p.Prefs.Offers,
			Mentions:   p.Prefs.Mentions,
		},
		"updated_at": time.Now(),
	}}

	coll, err := r.collectionFor(p.Provider)
	if err != nil {
		return err
	}

	res, err := coll.UpdateOne(ctx, bson.M{"_id": p.AccountID.String()}, update)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}

// SetAvatarURL records the public URL of a freshly uploaded avatar.
func (r *Repository) SetAvatarURL(ctx context.Context, provider string, accountID uuid.UUID, avatarURL string) error {
	coll, err := r.collectionFor(provider)
	if err != nil {
		return err
	}

	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": accountID.String()},
		bson.M{"$set": bson.M{"avatar_url": avatarURL, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to set avatar url: %w", err)
	}
	if res.MatchedCount == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}

func (r *Repository) collectionFor(provider string) (*mongo.Collection, error) {
	switch provider {
	case auth.ProviderLocal:
		return r.localAccounts(), nil
	case auth.ProviderGoogle:
		return r.googleAccounts(), nil
	default:
		return nil, profile.ErrProfileNotFound
	}
}

func mapProfileErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return profile.ErrProfileNotFound
	}
	return fmt.Errorf("failed to load profile: %w", err)
}

func localProfile(doc localAccountDoc) (*profile.Profile, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("malformed account id %q: %w", doc.ID, err)
	}
	return &profile.Profile{
		AccountID:   id,
		Provider:    auth.ProviderLocal,
		Username:    doc.Username,
		Email:       doc.Email,
		DisplayName: doc.DisplayName,
		Bio:         doc.Bio,
		AvatarURL:   doc.AvatarURL,
		Language:    doc.Language,
		Timezone:    doc.Timezone,
		Prefs:       prefsFromDoc(doc.Prefs),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

func googleProfile(doc googleAccountDoc) (*profile.Profile, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("malformed account id %q: %w", doc.ID, err)
	}
	return &profile.Profile{
		AccountID:   id,
		Provider:    auth.ProviderGoogle,
		Username:    doc.Username,
		Email:       doc.Email,
		DisplayName: doc.DisplayName,
		Bio:         doc.Bio,
		AvatarURL:   doc.AvatarURL,
		Language:    doc.Language,
		Timezone:    doc.Timezone,
		Prefs:       prefsFromDoc(doc.Prefs),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

func prefsFromDoc(doc notificationPrefsDoc) profile.NotificationPrefs {
	prefs := profile.NotificationPrefs{
		Newsletter: profile.NewsletterFrequency(doc.Newsletter),
		Updates:    doc.Updates,
		Offers:     doc.Offers,
		Mentions:   doc.Mentions,
	}
	if prefs.Newsletter == "" {
		prefs.Newsletter = profile.NewsletterWeekly
	}
	return prefs
}

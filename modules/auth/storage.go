package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LocalAccountStore persists verified local accounts. Lookups return
// ErrAccountNotFound when no record matches.
type LocalAccountStore interface {
	CreateLocalAccount(ctx context.Context, acct *LocalAccount) error
	GetLocalAccountByID(ctx context.Context, id uuid.UUID) (*LocalAccount, error)
	GetLocalAccountByEmail(ctx context.Context, email string) (*LocalAccount, error)
	GetLocalAccountByUsername(ctx context.Context, username string) (*LocalAccount, error)
}

// PendingSignupStore persists not-yet-verified signups. Lookups return
// ErrPendingNotFound when no record matches.
type PendingSignupStore interface {
	CreatePendingSignup(ctx context.Context, pending *PendingSignup) error
	GetPendingSignupByID(ctx context.Context, id uuid.UUID) (*PendingSignup, error)
	GetPendingSignupByEmail(ctx context.Context, email string) (*PendingSignup, error)
	GetPendingSignupByUsername(ctx context.Context, username string) (*PendingSignup, error)
	DeletePendingSignup(ctx context.Context, id uuid.UUID) error
}

// GoogleAccountStore persists Google-backed accounts. Lookups return
// ErrAccountNotFound when no record matches.
type GoogleAccountStore interface {
	CreateGoogleAccount(ctx context.Context, acct *GoogleAccount) error
	GetGoogleAccountByID(ctx context.Context, id uuid.UUID) (*GoogleAccount, error)
	GetGoogleAccountByGoogleID(ctx context.Context, googleID string) (*GoogleAccount, error)
	GetGoogleAccountByEmail(ctx context.Context, email string) (*GoogleAccount, error)
	GetGoogleAccountByUsername(ctx context.Context, username string) (*GoogleAccount, error)
	// UpdateGoogleProfile refreshes the provider-sourced fields. The avatar
	// is written only if the stored one is empty (first write wins).
	UpdateGoogleProfile(ctx context.Context, id uuid.UUID, email, displayName, avatarURL string) error
	// SetGoogleUsername assigns the username and flips UsernameSet. It fails
	// with ErrUsernameAlreadySet when the flag is already true.
	SetGoogleUsername(ctx context.Context, id uuid.UUID, username string) error
}

// StateStore keeps one-time OAuth state tokens with their entry intent.
// Consume must be atomic: a state token resolves at most once, and a
// second consume returns ErrInvalidState.
type StateStore interface {
	StoreState(ctx context.Context, state string, intent Intent, ttl time.Duration) error
	ConsumeState(ctx context.Context, state string) (Intent, error)
}

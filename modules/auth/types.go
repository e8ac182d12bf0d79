package auth

import (
	"time"

	"github.com/google/uuid"
)

// Provider identifiers embedded in session tokens and stored records.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// LocalAccount is a fully verified email/password account.
type LocalAccount struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	DisplayName  string
	AvatarURL    string
	CreatedAt    time.Time
}

// PendingSignup is a local signup awaiting OTP verification. At most one
// pending record or local account may exist per username or email.
type PendingSignup struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	OTP          string
	OTPExpiresAt time.Time
	CreatedAt    time.Time
}

// GoogleAccount is an account backed by a Google identity. Username is
// empty until the owner picks one; UsernameSet flips exactly once.
type GoogleAccount struct {
	ID          uuid.UUID
	GoogleID    string
	Email       string
	Username    string
	UsernameSet bool
	DisplayName string
	AvatarURL   string
	CreatedAt   time.Time
}

// Identity is the provider-agnostic shape returned to callers after a
// successful token verification, regardless of the underlying account type.
type Identity struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Provider  string    `json:"provider"`
}

func (a *LocalAccount) Identity() Identity {
	return Identity{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		AvatarURL: a.AvatarURL,
		Provider:  ProviderLocal,
	}
}

func (a *GoogleAccount) Identity() Identity {
	return Identity{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		AvatarURL: a.AvatarURL,
		Provider:  ProviderGoogle,
	}
}

// Intent marks which entry point started an OAuth round-trip. It is stored
// server-side with the state token, never in the URL the provider sees.
type Intent string

const (
	IntentSignup Intent = "signup"
	IntentLogin  Intent = "login"
)

// Valid reports whether the intent is one of the known entry points.
func (i Intent) Valid() bool {
	return i == IntentSignup || i == IntentLogin
}

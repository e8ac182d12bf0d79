package profile

import (
	"context"

	"github.com/google/uuid"
)

// Store reads and writes profile fields for either account type, keyed by
// provider plus account id. Lookups return ErrProfileNotFound when no
// record matches.
type Store interface {
	GetProfile(ctx context.Context, provider string, accountID uuid.UUID) (*Profile, error)
	// SaveProfile persists the mutable fields of an already-merged profile.
	SaveProfile(ctx context.Context, p *Profile) error
	SetAvatarURL(ctx context.Context, provider string, accountID uuid.UUID, avatarURL string) error
}

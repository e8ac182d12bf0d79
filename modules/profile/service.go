package profile

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authhub/pkg/file"
	"github.com/dmitrymomot/authhub/pkg/imaging"
	"github.com/dmitrymomot/authhub/pkg/sanitizer"
	"github.com/dmitrymomot/authhub/pkg/validator"
)

const (
	// MaxAvatarBytes bounds the accepted upload size.
	MaxAvatarBytes = 5 << 20 // 5MB

	// avatarSize is the edge length of the stored square avatar.
	avatarSize = 512
)

// Service implements profile reads and partial updates on top of the
// store, plus the avatar upload pipeline.
type Service struct {
	store Store
	files file.Storage
}

// NewService creates the profile service.
func NewService(store Store, files file.Storage) *Service {
	return &Service{store: store, files: files}
}

// Get returns the profile of the authenticated account.
func (s *Service) Get(ctx context.Context, provider string, accountID uuid.UUID) (*Profile, error) {
	return s.store.GetProfile(ctx, provider, accountID)
}

// Update applies a partial patch. Absent fields keep their stored values;
// notification preferences merge key by key.
func (s *Service) Update(ctx context.Context, provider string, accountID uuid.UUID, params UpdateParams) (*Profile, error) {
	if err := validateUpdate(params); err != nil {
		return nil, err
	}

	p, err := s.store.GetProfile(ctx, provider, accountID)
	if err != nil {
		return nil, err
	}

	if params.DisplayName != nil {
		p.DisplayName = sanitizer.SingleLine(*params.DisplayName)
	}
	if params.Bio != nil {
		p.Bio = sanitizer.Trim(*params.Bio)
	}
	if params.Language != nil {
		p.Language = sanitizer.Trim(*params.Language)
	}
	if params.Timezone != nil {
		p.Timezone = sanitizer.Trim(*params.Timezone)
	}
	if params.Newsletter != nil {
		p.Prefs.Newsletter = NewsletterFrequency(*params.Newsletter)
	}
	if params.Updates != nil {
		p.Prefs.Updates = *params.Updates
	}
	if params.Offers != nil {
		p.Prefs.Offers = *params.Offers
	}
	if params.Mentions != nil {
		p.Prefs.Mentions = *params.Mentions
	}
	p.UpdatedAt = time.Now()

	if err := s.store.SaveProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return p, nil
}

func validateUpdate(params UpdateParams) error {
	rules := []validator.Rule{}
	if params.DisplayName != nil {
		rules = append(rules, validator.MaxLen("displayName", *params.DisplayName, 100))
	}
	if params.Bio != nil {
		rules = append(rules, validator.MaxLen("bio", *params.Bio, 1000))
	}
	if params.Language != nil {
		rules = append(rules, validator.Required("language", sanitizer.Trim(*params.Language)))
	}
	if params.Timezone != nil {
		rules = append(rules, validator.Required("timezone", sanitizer.Trim(*params.Timezone)))
	}
	if params.Newsletter != nil {
		rules = append(rules, validator.OneOf("newsletter", *params.Newsletter,
			string(NewsletterWeekly), string(NewsletterBiweekly),
			string(NewsletterMonthly), string(NewsletterOff)))
	}
	return validator.Apply(rules...)
}

// SetAvatar runs the upload pipeline: bound the size, normalize the image
// to a square JPEG, persist the blob and record its URL. A pipeline
// failure is fatal to the request; nothing is stored.
func (s *Service) SetAvatar(ctx context.Context, provider string, accountID uuid.UUID, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrMissingFile
	}
	if len(data) > MaxAvatarBytes {
		return "", ErrAvatarTooLarge
	}

	processed, err := imaging.ProcessSquare(data, avatarSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	// Timestamp plus random suffix keeps paths unique without coordination.
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate avatar path: %w", err)
	}
	path := fmt.Sprintf("avatars/%d-%x.jpg", time.Now().UnixMilli(), suffix)

	avatarURL, err := s.files.Save(ctx, bytes.NewReader(processed), path, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	if err := s.store.SetAvatarURL(ctx, provider, accountID, avatarURL); err != nil {
		return "", fmt.Errorf("failed to persist avatar url: %w", err)
	}
	return avatarURL, nil
}

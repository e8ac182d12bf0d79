package profile_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authhub/modules/auth"
	"github.com/dmitrymomot/authhub/modules/profile"
	"github.com/dmitrymomot/authhub/pkg/file"
	"github.com/dmitrymomot/authhub/pkg/validator"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetProfile(ctx context.Context, provider string, accountID uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, provider, accountID)
	if p := args.Get(0); p != nil {
		return p.(*profile.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) SaveProfile(ctx context.Context, p *profile.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockStore) SetAvatarURL(ctx context.Context, provider string, accountID uuid.UUID, avatarURL string) error {
	return m.Called(ctx, provider, accountID, avatarURL).Error(0)
}

var _ profile.Store = (*mockStore)(nil)

func newStoredProfile() *profile.Profile {
	return &profile.Profile{
		AccountID:   uuid.New(),
		Provider:    auth.ProviderLocal,
		Username:    "alice",
		Email:       "a@x.com",
		DisplayName: "Alice",
		Bio:         "hello",
		Language:    profile.DefaultLanguage,
		Timezone:    profile.DefaultTimezone,
		Prefs:       profile.DefaultNotificationPrefs(),
		CreatedAt:   time.Now().Add(-time.Hour),
	}
}

func newTestStorage(t *testing.T) file.Storage {
	t.Helper()

	storage, err := file.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return storage
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("patches only provided fields", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		stored := newStoredProfile()
		store.On("GetProfile", mock.Anything, stored.Provider, stored.AccountID).Return(stored, nil)
		store.On("SaveProfile", mock.Anything, mock.Anything).Return(nil)

		svc := profile.NewService(store, newTestStorage(t))
		got, err := svc.Update(context.Background(), stored.Provider, stored.AccountID, profile.UpdateParams{
			Bio: strPtr("new bio"),
		})
		require.NoError(t, err)

		assert.Equal(t, "new bio", got.Bio)
		assert.Equal(t, "Alice", got.DisplayName)
		assert.Equal(t, profile.DefaultLanguage, got.Language)
		assert.Equal(t, profile.DefaultNotificationPrefs(), got.Prefs)
	})

	t.Run("merges notification prefs key by key", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		stored := newStoredProfile()
		store.On("GetProfile", mock.Anything, stored.Provider, stored.AccountID).Return(stored, nil)
		store.On("SaveProfile", mock.Anything, mock.Anything).Return(nil)

		svc := profile.NewService(store, newTestStorage(t))
		got, err := svc.Update(context.Background(), stored.Provider, stored.AccountID, profile.UpdateParams{
			Newsletter: strPtr("monthly"),
			Offers:     boolPtr(false),
		})
		require.NoError(t, err)

		assert.Equal(t, profile.NewsletterMonthly, got.Prefs.Newsletter)
		assert.False(t, got.Prefs.Offers)
		// Untouched keys keep their stored values.
		assert.True(t, got.Prefs.Updates)
		assert.True(t, got.Prefs.Mentions)
	})

	t.Run("rejects unknown newsletter frequency", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		svc := profile.NewService(store, newTestStorage(t))
		_, err := svc.Update(context.Background(), auth.ProviderLocal, uuid.New(), profile.UpdateParams{
			Newsletter: strPtr("daily"),
		})

		ve, ok := validator.Extract(err)
		require.True(t, ok)
		assert.True(t, ve.Has("newsletter"))
		store.AssertNotCalled(t, "SaveProfile", mock.Anything, mock.Anything)
	})

	t.Run("rejects overlong bio", func(t *testing.T) {
		t.Parallel()

		svc := profile.NewService(&mockStore{}, newTestStorage(t))
		_, err := svc.Update(context.Background(), auth.ProviderLocal, uuid.New(), profile.UpdateParams{
			Bio: strPtr(strings.Repeat("x", 1001)),
		})

		ve, ok := validator.Extract(err)
		require.True(t, ok)
		assert.True(t, ve.Has("bio"))
	})

	t.Run("unknown account", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		id := uuid.New()
		store.On("GetProfile", mock.Anything, auth.ProviderGoogle, id).Return(nil, profile.ErrProfileNotFound)

		svc := profile.NewService(store, newTestStorage(t))
		_, err := svc.Update(context.Background(), auth.ProviderGoogle, id, profile.UpdateParams{
			Bio: strPtr("x"),
		})
		assert.ErrorIs(t, err, profile.ErrProfileNotFound)
	})
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 64, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestServiceSetAvatar(t *testing.T) {
	t.Parallel()

	t.Run("processes and stores the avatar", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		id := uuid.New()
		var persistedURL string
		store.On("SetAvatarURL", mock.Anything, auth.ProviderLocal, id, mock.Anything).
			Run(func(args mock.Arguments) { persistedURL = args.String(3) }).Return(nil)

		svc := profile.NewService(store, newTestStorage(t))
		avatarURL, err := svc.SetAvatar(context.Background(), auth.ProviderLocal, id, encodePNG(t, 300, 200))
		require.NoError(t, err)

		assert.Equal(t, persistedURL, avatarURL)
		assert.True(t, strings.HasPrefix(avatarURL, "/uploads/avatars/"), avatarURL)
		assert.True(t, strings.HasSuffix(avatarURL, ".jpg"), avatarURL)
	})

	t.Run("rejects empty upload", func(t *testing.T) {
		t.Parallel()

		svc := profile.NewService(&mockStore{}, newTestStorage(t))
		_, err := svc.SetAvatar(context.Background(), auth.ProviderLocal, uuid.New(), nil)
		assert.ErrorIs(t, err, profile.ErrMissingFile)
	})

	t.Run("rejects oversized upload", func(t *testing.T) {
		t.Parallel()

		svc := profile.NewService(&mockStore{}, newTestStorage(t))
		_, err := svc.SetAvatar(context.Background(), auth.ProviderLocal, uuid.New(),
			make([]byte, profile.MaxAvatarBytes+1))
		assert.ErrorIs(t, err, profile.ErrAvatarTooLarge)
	})

	t.Run("non-image payload fails the pipeline and stores nothing", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		svc := profile.NewService(store, newTestStorage(t))
		_, err := svc.SetAvatar(context.Background(), auth.ProviderLocal, uuid.New(), []byte("not an image"))
		assert.ErrorIs(t, err, profile.ErrProcessingFailed)
		store.AssertNotCalled(t, "SetAvatarURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

package profile_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authhub/modules/auth"
	"github.com/dmitrymomot/authhub/modules/profile"
	"github.com/dmitrymomot/authhub/pkg/jwt"
)

// stubLocalStore serves a single account for session resolution.
type stubLocalStore struct {
	acct *auth.LocalAccount
}

func (s *stubLocalStore) CreateLocalAccount(ctx context.Context, acct *auth.LocalAccount) error {
	return nil
}

func (s *stubLocalStore) GetLocalAccountByID(ctx context.Context, id uuid.UUID) (*auth.LocalAccount, error) {
	if s.acct != nil && s.acct.ID == id {
		return s.acct, nil
	}
	return nil, auth.ErrAccountNotFound
}

func (s *stubLocalStore) GetLocalAccountByEmail(ctx context.Context, email string) (*auth.LocalAccount, error) {
	return nil, auth.ErrAccountNotFound
}

func (s *stubLocalStore) GetLocalAccountByUsername(ctx context.Context, username string) (*auth.LocalAccount, error) {
	return nil, auth.ErrAccountNotFound
}

type stubGoogleStore struct{}

func (stubGoogleStore) CreateGoogleAccount(ctx context.Context, acct *auth.GoogleAccount) error {
	return nil
}

func (stubGoogleStore) GetGoogleAccountByID(ctx context.Context, id uuid.UUID) (*auth.GoogleAccount, error) {
	return nil, auth.ErrAccountNotFound
}

func (stubGoogleStore) GetGoogleAccountByGoogleID(ctx context.Context, googleID string) (*auth.GoogleAccount, error) {
	return nil, auth.ErrAccountNotFound
}

func (stubGoogleStore) GetGoogleAccountByEmail(ctx context.Context, email string) (*auth.GoogleAccount, error) {
	return nil, auth.ErrAccountNotFound
}

func (stubGoogleStore) GetGoogleAccountByUsername(ctx context.Context, username string) (*auth.GoogleAccount, error) {
	return nil, auth.ErrAccountNotFound
}

func (stubGoogleStore) UpdateGoogleProfile(ctx context.Context, id uuid.UUID, email, displayName, avatarURL string) error {
	return nil
}

func (stubGoogleStore) SetGoogleUsername(ctx context.Context, id uuid.UUID, username string) error {
	return nil
}

type profileFixture struct {
	store   *mockStore
	acct    *auth.LocalAccount
	token   string
	handler http.Handler
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()

	acct := &auth.LocalAccount{ID: uuid.New(), Username: "alice", Email: "a@x.com"}
	cfg := auth.Config{
		JWTSigningKey: "test-signing-key-0123456789abcdef",
		TokenTTL:      time.Hour,
	}
	jwtSvc, err := jwt.NewFromString(cfg.JWTSigningKey)
	require.NoError(t, err)
	sessions := auth.NewSessionService(cfg, jwtSvc, &stubLocalStore{acct: acct}, stubGoogleStore{})

	token, err := sessions.IssueLocal(acct)
	require.NoError(t, err)

	store := &mockStore{}
	svc := profile.NewService(store, newTestStorage(t))
	return &profileFixture{
		store:   store,
		acct:    acct,
		token:   token,
		handler: profile.NewHandler(svc, sessions, nil).Handle(),
	}
}

func (f *profileFixture) do(r *http.Request, authenticated bool) *httptest.ResponseRecorder {
	if authenticated {
		r.Header.Set("Authorization", "Bearer "+f.token)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)
	return w
}

func TestHandlerGetProfile(t *testing.T) {
	t.Parallel()

	t.Run("returns the stored profile", func(t *testing.T) {
		t.Parallel()

		f := newProfileFixture(t)
		stored := newStoredProfile()
		stored.AccountID = f.acct.ID
		f.store.On("GetProfile", mock.Anything, auth.ProviderLocal, f.acct.ID).Return(stored, nil)

		w := f.do(httptest.NewRequest(http.MethodGet, "/me", nil), true)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		t.Parallel()

		f := newProfileFixture(t)
		w := f.do(httptest.NewRequest(http.MethodGet, "/me", nil), false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandlerUpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("applies a partial patch", func(t *testing.T) {
		t.Parallel()

		f := newProfileFixture(t)
		stored := newStoredProfile()
		stored.AccountID = f.acct.ID
		f.store.On("GetProfile", mock.Anything, auth.ProviderLocal, f.acct.ID).Return(stored, nil)
		f.store.On("SaveProfile", mock.Anything, mock.Anything).Return(nil)

		body := `{"bio":"updated bio","notificationPrefs":{"newsletter":"off"}}`
		w := f.do(httptest.NewRequest(http.MethodPut, "/me", strings.NewReader(body)), true)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			User profile.Profile `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "updated bio", resp.User.Bio)
		assert.Equal(t, profile.NewsletterOff, resp.User.Prefs.Newsletter)
		assert.True(t, resp.User.Prefs.Updates)
	})

	t.Run("invalid newsletter value returns 400", func(t *testing.T) {
		t.Parallel()

		f := newProfileFixture(t)
		body := `{"notificationPrefs":{"newsletter":"hourly"}}`
		w := f.do(httptest.NewRequest(http.MethodPut, "/me", strings.NewReader(body)), true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func multipartAvatar(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandlerSetAvatar(t *testing.T) {
	t.Parallel()

	t.Run("stores avatar and returns its url", func(t *testing.T) {
		t.Parallel()

		f := newProfileFixture(t)
		f.store.On("SetAvatarURL", mock.Anything, auth.ProviderLocal, f.acct.ID, mock.Anything).Return(nil)

		body, contentType := multipartAvatar(t, "avatar", encodePNG(t, 100, 100))
		r := httptest.NewRequest(http.MethodPost, "/avatar", body)
		r.Header.Set("Content-Type", contentType)

		w := f.do(r, true)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"avatarUrl":"/uploads/avatars/`)
	})

	t.Run("missing file field returns 400", func(t *testing.T) {
		t.Parallel()

		f := newProfileFixture(t)
		body, contentType := multipartAvatar(t, "something-else", []byte("x"))
		r := httptest.NewRequest(http.MethodPost, "/avatar", body)
		r.Header.Set("Content-Type", contentType)

		w := f.do(r, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("broken image returns 500", func(t *testing.T) {
		t.Parallel()

		f := newProfileFixture(t)
		body, contentType := multipartAvatar(t, "avatar", []byte("not an image"))
		r := httptest.NewRequest(http.MethodPost, "/avatar", body)
		r.Header.Set("Content-Type", contentType)

		w := f.do(r, true)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		t.Parallel()

		f := newProfileFixture(t)
		w := f.do(httptest.NewRequest(http.MethodPost, "/avatar", nil), false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

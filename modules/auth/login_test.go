package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authhub/modules/auth"
)

func TestLogin(t *testing.T) {
	t.Parallel()

	newAccount := func(t *testing.T) *auth.LocalAccount {
		return &auth.LocalAccount{
			ID:           uuid.New(),
			Username:     "alice",
			Email:        "a@x.com",
			PasswordHash: hashPassword(t, "secret1"),
		}
	}

	t.Run("authenticates by username", func(t *testing.T) {
		t.Parallel()

		accounts := &mockLocalStore{}
		acct := newAccount(t)
		accounts.On("GetLocalAccountByUsername", mock.Anything, "alice").Return(acct, nil)
		accounts.On("GetLocalAccountByID", mock.Anything, acct.ID).Return(acct, nil)

		svc := newLocalService(t, accounts, &mockPendingStore{})
		token, got, err := svc.Login(context.Background(), "alice", "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, acct, got)

		// The issued token resolves back to the same account.
		sessions := newSessionService(t, accounts, &mockGoogleStore{})
		identity, err := sessions.Authenticate(context.Background(), auth.CredentialSource{Bearer: token})
		require.NoError(t, err)
		assert.Equal(t, acct.ID, identity.ID)
		assert.Equal(t, auth.ProviderLocal, identity.Provider)
	})

	t.Run("authenticates by email with case folding", func(t *testing.T) {
		t.Parallel()

		accounts := &mockLocalStore{}
		acct := newAccount(t)
		accounts.On("GetLocalAccountByEmail", mock.Anything, "a@x.com").Return(acct, nil)

		svc := newLocalService(t, accounts, &mockPendingStore{})
		_, got, err := svc.Login(context.Background(), "A@X.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, acct, got)
	})

	t.Run("falls back to email lookup for non-address identifiers", func(t *testing.T) {
		t.Parallel()

		accounts := &mockLocalStore{}
		acct := newAccount(t)
		accounts.On("GetLocalAccountByUsername", mock.Anything, "someid").Return(nil, auth.ErrAccountNotFound)
		accounts.On("GetLocalAccountByEmail", mock.Anything, "someid").Return(acct, nil)

		svc := newLocalService(t, accounts, &mockPendingStore{})
		_, got, err := svc.Login(context.Background(), "someid", "secret1")
		require.NoError(t, err)
		assert.Equal(t, acct, got)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		accounts := &mockLocalStore{}
		accounts.On("GetLocalAccountByUsername", mock.Anything, "alice").Return(newAccount(t), nil)

		svc := newLocalService(t, accounts, &mockPendingStore{})
		_, _, err := svc.Login(context.Background(), "alice", "wrong-password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		t.Parallel()

		accounts := &mockLocalStore{}
		accounts.On("GetLocalAccountByUsername", mock.Anything, "ghost").Return(nil, auth.ErrAccountNotFound)
		accounts.On("GetLocalAccountByEmail", mock.Anything, "ghost").Return(nil, auth.ErrAccountNotFound)

		svc := newLocalService(t, accounts, &mockPendingStore{})
		_, _, err := svc.Login(context.Background(), "ghost", "secret1")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("empty credentials", func(t *testing.T) {
		t.Parallel()

		svc := newLocalService(t, &mockLocalStore{}, &mockPendingStore{})
		_, _, err := svc.Login(context.Background(), "", "")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

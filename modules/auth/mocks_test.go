package auth_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/authhub/modules/auth"
	"github.com/dmitrymomot/authhub/pkg/email"
)

type mockLocalStore struct {
	mock.Mock
}

func (m *mockLocalStore) CreateLocalAccount(ctx context.Context, acct *auth.LocalAccount) error {
	return m.Called(ctx, acct).Error(0)
}

func (m *mockLocalStore) GetLocalAccountByID(ctx context.Context, id uuid.UUID) (*auth.LocalAccount, error) {
	args := m.Called(ctx, id)
	if acct := args.Get(0); acct != nil {
		return acct.(*auth.LocalAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLocalStore) GetLocalAccountByEmail(ctx context.Context, emailAddr string) (*auth.LocalAccount, error) {
	args := m.Called(ctx, emailAddr)
	if acct := args.Get(0); acct != nil {
		return acct.(*auth.LocalAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLocalStore) GetLocalAccountByUsername(ctx context.Context, username string) (*auth.LocalAccount, error) {
	args := m.Called(ctx, username)
	if acct := args.Get(0); acct != nil {
		return acct.(*auth.LocalAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPendingStore struct {
	mock.Mock
}

func (m *mockPendingStore) CreatePendingSignup(ctx context.Context, pending *auth.PendingSignup) error {
	return m.Called(ctx, pending).Error(0)
}

func (m *mockPendingStore) GetPendingSignupByID(ctx context.Context, id uuid.UUID) (*auth.PendingSignup, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*auth.PendingSignup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPendingStore) GetPendingSignupByEmail(ctx context.Context, emailAddr string) (*auth.PendingSignup, error) {
	args := m.Called(ctx, emailAddr)
	if p := args.Get(0); p != nil {
		return p.(*auth.PendingSignup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPendingStore) GetPendingSignupByUsername(ctx context.Context, username string) (*auth.PendingSignup, error) {
	args := m.Called(ctx, username)
	if p := args.Get(0); p != nil {
		return p.(*auth.PendingSignup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPendingStore) DeletePendingSignup(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockGoogleStore struct {
	mock.Mock
}

func (m *mockGoogleStore) CreateGoogleAccount(ctx context.Context, acct *auth.GoogleAccount) error {
	return m.Called(ctx, acct).Error(0)
}

func (m *mockGoogleStore) GetGoogleAccountByID(ctx context.Context, id uuid.UUID) (*auth.GoogleAccount, error) {
	args := m.Called(ctx, id)
	if acct := args.Get(0); acct != nil {
		return acct.(*auth.GoogleAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGoogleStore) GetGoogleAccountByGoogleID(ctx context.Context, googleID string) (*auth.GoogleAccount, error) {
	args := m.Called(ctx, googleID)
	if acct := args.Get(0); acct != nil {
		return acct.(*auth.GoogleAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGoogleStore) GetGoogleAccountByEmail(ctx context.Context, emailAddr string) (*auth.GoogleAccount, error) {
	args := m.Called(ctx, emailAddr)
	if acct := args.Get(0); acct != nil {
		return acct.(*auth.GoogleAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGoogleStore) GetGoogleAccountByUsername(ctx context.Context, username string) (*auth.GoogleAccount, error) {
	args := m.Called(ctx, username)
	if acct := args.Get(0); acct != nil {
		return acct.(*auth.GoogleAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGoogleStore) UpdateGoogleProfile(ctx context.Context, id uuid.UUID, emailAddr, displayName, avatarURL string) error {
	return m.Called(ctx, id, emailAddr, displayName, avatarURL).Error(0)
}

func (m *mockGoogleStore) SetGoogleUsername(ctx context.Context, id uuid.UUID, username string) error {
	return m.Called(ctx, id, username).Error(0)
}

type mockStateStore struct {
	mock.Mock
}

func (m *mockStateStore) StoreState(ctx context.Context, state string, intent auth.Intent, ttl time.Duration) error {
	return m.Called(ctx, state, intent, ttl).Error(0)
}

func (m *mockStateStore) ConsumeState(ctx context.Context, state string) (auth.Intent, error) {
	args := m.Called(ctx, state)
	return args.Get(0).(auth.Intent), args.Error(1)
}

type mockAdapter struct {
	mock.Mock
}

func (m *mockAdapter) AuthURL(state string) string {
	return m.Called(state).String(0)
}

func (m *mockAdapter) ResolveProfile(ctx context.Context, code string) (auth.ProviderProfile, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(auth.ProviderProfile), args.Error(1)
}

type mockEmailSender struct {
	mock.Mock
}

func (m *mockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}

var _ auth.LocalAccountStore = (*mockLocalStore)(nil)
var _ auth.PendingSignupStore = (*mockPendingStore)(nil)
var _ auth.GoogleAccountStore = (*mockGoogleStore)(nil)
var _ auth.StateStore = (*mockStateStore)(nil)
var _ auth.ProviderAdapter = (*mockAdapter)(nil)
var _ email.EmailSender = (*mockEmailSender)(nil)

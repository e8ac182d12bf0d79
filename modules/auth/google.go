package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authhub/pkg/sanitizer"
	"github.com/dmitrymomot/authhub/pkg/validator"
)

// GoogleService reconciles Google OAuth assertions with stored accounts.
// The flow is a small state machine per account:
//
//	unlinked -> awaiting-username -> authenticated
//
// awaiting-username persists until the owner picks a username; there is no
// expiry on it, unlike local pending signups.
type GoogleService struct {
	cfg      Config
	adapter  ProviderAdapter
	accounts GoogleAccountStore
	local    LocalAccountStore
	states   StateStore
	sessions *SessionService
}

// NewGoogleService creates the Google OAuth service.
func NewGoogleService(
	cfg Config,
	adapter ProviderAdapter,
	accounts GoogleAccountStore,
	local LocalAccountStore,
	states StateStore,
	sessions *SessionService,
) *GoogleService {
	return &GoogleService{
		cfg:      cfg,
		adapter:  adapter,
		accounts: accounts,
		local:    local,
		states:   states,
		sessions: sessions,
	}
}

// AuthURL starts an OAuth round-trip: it mints a one-time state token
// bound to the entry intent and returns the provider authorization URL.
func (s *GoogleService) AuthURL(ctx context.Context, intent Intent) (string, error) {
	if !intent.Valid() {
		intent = IntentLogin
	}

	state, err := generateStateToken()
	if err != nil {
		return "", err
	}
	if err := s.states.StoreState(ctx, state, intent, s.cfg.StateTTL); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}

	return s.adapter.AuthURL(state), nil
}

// Callback finishes the OAuth round-trip and returns the frontend URL the
// user agent must be redirected to. Since the caller is mid-redirect,
// failures are delivered as an error marker on the frontend URL rather
// than an HTTP error body.
func (s *GoogleService) Callback(ctx context.Context, state, code string) string {
	intent, err := s.states.ConsumeState(ctx, state)
	if err != nil {
		return s.errorRedirect("invalid_state")
	}

	profile, err := s.adapter.ResolveProfile(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return s.errorRedirect("invalid_code")
		}
		return s.errorRedirect("provider_error")
	}
	if profile.Email == "" {
		// Provider did not grant the email scope, nothing to key the account on.
		return s.errorRedirect("email_required")
	}
	profile.Email = sanitizer.NormalizeEmail(profile.Email)

	acct, err := s.resolveAccount(ctx, profile)
	if err != nil {
		return s.errorRedirect("server_error")
	}

	// Signup intent always re-prompts for a username, even when one is
	// already set. Login intent only does so while the username is missing.
	if intent == IntentSignup || !acct.UsernameSet {
		return s.usernameRedirect(acct.ID)
	}

	token, err := s.sessions.IssueGoogle(acct)
	if err != nil {
		return s.errorRedirect("server_error")
	}
	return s.tokenRedirect(token)
}

// resolveAccount finds the account for a provider assertion or creates
// one. Lookup is by googleId first, then by email for accounts created
// before the provider id was known. Provider-sourced fields are refreshed
// on every callback; the stored avatar survives later provider changes.
func (s *GoogleService) resolveAccount(ctx context.Context, profile ProviderProfile) (*GoogleAccount, error) {
	acct, err := s.accounts.GetGoogleAccountByGoogleID(ctx, profile.GoogleID)
	if errors.Is(err, ErrAccountNotFound) {
		acct, err = s.accounts.GetGoogleAccountByEmail(ctx, profile.Email)
	}
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}

		acct = &GoogleAccount{
			ID:          uuid.New(),
			GoogleID:    profile.GoogleID,
			Email:       profile.Email,
			UsernameSet: false,
			DisplayName: profile.Name,
			AvatarURL:   profile.AvatarURL,
			CreatedAt:   time.Now(),
		}
		if err := s.accounts.CreateGoogleAccount(ctx, acct); err != nil {
			return nil, err
		}
		return acct, nil
	}

	if err := s.accounts.UpdateGoogleProfile(ctx, acct.ID, profile.Email, profile.Name, profile.AvatarURL); err != nil {
		return nil, err
	}
	acct.Email = profile.Email
	acct.DisplayName = profile.Name
	if acct.AvatarURL == "" {
		acct.AvatarURL = profile.AvatarURL
	}
	return acct, nil
}

// SetUsername completes the deferred-username step, exactly once per
// account. The username must be free across both local and Google
// namespaces; comparison is exact after trimming. No token is issued here,
// the caller authenticates separately.
func (s *GoogleService) SetUsername(ctx context.Context, pendingID uuid.UUID, username string) (*GoogleAccount, error) {
	username = sanitizer.Trim(username)
	if err := validator.Apply(
		validator.Required("username", username),
	); err != nil {
		return nil, err
	}

	acct, err := s.accounts.GetGoogleAccountByID(ctx, pendingID)
	if err != nil {
		return nil, err
	}
	if acct.UsernameSet {
		return nil, ErrUsernameAlreadySet
	}

	if err := s.checkUsernameFree(ctx, username); err != nil {
		return nil, err
	}

	if err := s.accounts.SetGoogleUsername(ctx, acct.ID, username); err != nil {
		return nil, err
	}
	acct.Username = username
	acct.UsernameSet = true
	return acct, nil
}

// checkUsernameFree enforces the shared username namespace across both
// account types.
func (s *GoogleService) checkUsernameFree(ctx context.Context, username string) error {
	if _, err := s.local.GetLocalAccountByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.accounts.GetGoogleAccountByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	return nil
}

func (s *GoogleService) errorRedirect(code string) string {
	return s.cfg.FrontendURL + "?auth_error=" + url.QueryEscape(code)
}

func (s *GoogleService) usernameRedirect(accountID uuid.UUID) string {
	return s.cfg.FrontendURL + "/set-username?pendingId=" + accountID.String()
}

func (s *GoogleService) tokenRedirect(token string) string {
	return s.cfg.FrontendURL + "/#google_token=" + token
}

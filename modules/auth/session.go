package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authhub/pkg/jwt"
)

// TokenCookieName is the cookie channel tokens may arrive on, mirroring
// the Authorization bearer header.
const TokenCookieName = "token"

// Claims is the session token payload. Provider and username are always
// embedded so verification never has to guess the account type.
type Claims struct {
	jwt.StandardClaims
	Provider string `json:"prv"`
	Username string `json:"usr"`
}

// CredentialSource is the resolved set of places a token may have arrived
// through. Entry points build it from the transport; the session service
// itself never reads a request.
type CredentialSource struct {
	Bearer string
	Cookie string
}

// Token returns the effective token, preferring the bearer header.
func (cs CredentialSource) Token() string {
	if cs.Bearer != "" {
		return cs.Bearer
	}
	return cs.Cookie
}

// CredentialsFromRequest extracts the bearer header and token cookie from
// an HTTP request into an explicit CredentialSource.
func CredentialsFromRequest(r *http.Request) CredentialSource {
	cs := CredentialSource{}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		cs.Bearer = strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(TokenCookieName); err == nil {
		cs.Cookie = c.Value
	}
	return cs
}

// SessionService issues and verifies session tokens and resolves them back
// to live account records.
type SessionService struct {
	jwt      *jwt.Service
	tokenTTL time.Duration
	local    LocalAccountStore
	google   GoogleAccountStore
}

// NewSessionService creates the session service.
func NewSessionService(cfg Config, jwtSvc *jwt.Service, local LocalAccountStore, google GoogleAccountStore) *SessionService {
	return &SessionService{
		jwt:      jwtSvc,
		tokenTTL: cfg.TokenTTL,
		local:    local,
		google:   google,
	}
}

// IssueLocal signs a token for a verified local account.
func (s *SessionService) IssueLocal(acct *LocalAccount) (string, error) {
	return s.issue(acct.ID, ProviderLocal, acct.Username)
}

// IssueGoogle signs a token for a Google account with its username set.
func (s *SessionService) IssueGoogle(acct *GoogleAccount) (string, error) {
	return s.issue(acct.ID, ProviderGoogle, acct.Username)
}

func (s *SessionService) issue(accountID uuid.UUID, provider, username string) (string, error) {
	now := time.Now()
	token, err := s.jwt.Generate(Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   accountID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
		Provider: provider,
		Username: username,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Authenticate verifies the token carried by the credential source and
// re-resolves it to the owning record. A token for a deleted account is as
// good as no token. All failures collapse to ErrUnauthenticated.
func (s *SessionService) Authenticate(ctx context.Context, cs CredentialSource) (Identity, error) {
	token := cs.Token()
	if token == "" {
		return Identity{}, ErrUnauthenticated
	}

	var claims Claims
	if err := s.jwt.Parse(token, &claims); err != nil {
		return Identity{}, ErrUnauthenticated
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}

	switch claims.Provider {
	case ProviderLocal:
		acct, err := s.local.GetLocalAccountByID(ctx, accountID)
		if err != nil {
			return Identity{}, ErrUnauthenticated
		}
		return acct.Identity(), nil
	case ProviderGoogle:
		acct, err := s.google.GetGoogleAccountByID(ctx, accountID)
		if err != nil {
			return Identity{}, ErrUnauthenticated
		}
		return acct.Identity(), nil
	default:
		return Identity{}, ErrUnauthenticated
	}
}

type contextKey struct{}

var identityContextKey = contextKey{}

// WithIdentity returns a context carrying the authenticated identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the authenticated identity stored by the
// middleware, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	return identity, ok
}

// Middleware authenticates each request and injects the resolved identity
// into the request context, rejecting with 401 otherwise.
func (s *SessionService) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.Authenticate(r.Context(), CredentialsFromRequest(r))
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

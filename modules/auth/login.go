package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/authhub/pkg/sanitizer"
)

// Login authenticates a local account by username or email plus password
// and returns a session token with the account. The identifier is tried as
// a username first with exact casing, then as a lowercased email. All
// failure modes collapse to ErrInvalidCredentials so a caller cannot probe
// which identifiers exist.
func (s *LocalService) Login(ctx context.Context, identifier, password string) (string, *LocalAccount, error) {
	identifier = sanitizer.Trim(identifier)
	if identifier == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	acct, err := s.lookupByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.sessions.IssueLocal(acct)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, acct, nil
}

func (s *LocalService) lookupByIdentifier(ctx context.Context, identifier string) (*LocalAccount, error) {
	if strings.Contains(identifier, "@") {
		return s.accounts.GetLocalAccountByEmail(ctx, sanitizer.NormalizeEmail(identifier))
	}

	acct, err := s.accounts.GetLocalAccountByUsername(ctx, identifier)
	if errors.Is(err, ErrAccountNotFound) {
		// Usernames may legally look nothing like emails yet match one.
		return s.accounts.GetLocalAccountByEmail(ctx, sanitizer.NormalizeEmail(identifier))
	}
	return acct, err
}

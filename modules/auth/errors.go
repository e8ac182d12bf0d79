package auth

import "errors"

var (
	// Local signup flow.
	ErrEmailTaken      = errors.New("auth: email is already taken")
	ErrUsernameTaken   = errors.New("auth: username is already taken")
	ErrPendingNotFound = errors.New("auth: pending signup not found")
	ErrOTPMismatch     = errors.New("auth: incorrect verification code")
	ErrOTPExpired      = errors.New("auth: verification code expired")

	// Login and sessions.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUnauthenticated    = errors.New("auth: unauthenticated")
	ErrAccountNotFound    = errors.New("auth: account not found")

	// Google OAuth flow.
	ErrInvalidState       = errors.New("auth: invalid or expired oauth state")
	ErrInvalidCode        = errors.New("auth: invalid authorization code")
	ErrNoEmail            = errors.New("auth: provider did not supply an email")
	ErrUsernameAlreadySet = errors.New("auth: username already set")
)

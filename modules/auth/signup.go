package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/authhub/pkg/sanitizer"
	"github.com/dmitrymomot/authhub/pkg/validator"
)

// LocalService runs the email/password flows: signup with OTP verification
// and credential login.
type LocalService struct {
	cfg      Config
	accounts LocalAccountStore
	pending  PendingSignupStore
	sessions *SessionService
	notifier *Notifier
}

// NewLocalService creates the local auth service.
func NewLocalService(
	cfg Config,
	accounts LocalAccountStore,
	pending PendingSignupStore,
	sessions *SessionService,
	notifier *Notifier,
) *LocalService {
	return &LocalService{
		cfg:      cfg,
		accounts: accounts,
		pending:  pending,
		sessions: sessions,
		notifier: notifier,
	}
}

// SignupParams carries the raw signup form fields.
type SignupParams struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// BeginSignup validates the form, checks uniqueness against both verified
// accounts and pending signups, and persists a pending record with a fresh
// OTP. The code is emailed best-effort; the pending record survives a mail
// failure and the user can restart signup to get a new code.
func (s *LocalService) BeginSignup(ctx context.Context, params SignupParams) (*PendingSignup, error) {
	username := sanitizer.Trim(params.Username)
	emailAddr := sanitizer.NormalizeEmail(params.Email)

	if err := validator.Apply(
		validator.Required("username", username),
		validator.MinLen("username", username, 3),
		validator.MaxLen("username", username, 32),
		validator.Required("email", emailAddr),
		validator.ValidEmail("email", emailAddr),
		validator.Required("password", params.Password),
		validator.MinLen("password", params.Password, 6),
		validator.Required("confirm_password", params.ConfirmPassword),
		validator.Equals("confirm_password", params.ConfirmPassword, params.Password),
	); err != nil {
		return nil, err
	}

	if err := s.checkUsernameFree(ctx, username); err != nil {
		return nil, err
	}
	if err := s.checkEmailFree(ctx, emailAddr); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	pending := &PendingSignup{
		ID:           uuid.New(),
		Username:     username,
		Email:        emailAddr,
		PasswordHash: string(hash),
		OTP:          otp,
		OTPExpiresAt: now.Add(s.cfg.OTPTTL),
		CreatedAt:    now,
	}
	if err := s.pending.CreatePendingSignup(ctx, pending); err != nil {
		return nil, fmt.Errorf("failed to persist pending signup: %w", err)
	}

	s.notifier.SendOTP(pending.Email, pending.Username, otp)

	return pending, nil
}

// VerifyOTP promotes a pending signup to a verified account. An expired
// code deletes the pending record even when the code matches; a wrong code
// leaves the record untouched so the user can retry until expiry. The
// uniqueness check is repeated here to close the window opened between
// begin and verify, and a conflict also deletes the pending record.
func (s *LocalService) VerifyOTP(ctx context.Context, pendingID uuid.UUID, otp string) (*LocalAccount, error) {
	pending, err := s.pending.GetPendingSignupByID(ctx, pendingID)
	if err != nil {
		return nil, err
	}

	if time.Now().After(pending.OTPExpiresAt) {
		if err := s.pending.DeletePendingSignup(ctx, pending.ID); err != nil {
			return nil, fmt.Errorf("failed to delete expired pending signup: %w", err)
		}
		return nil, ErrOTPExpired
	}

	if otp != pending.OTP {
		return nil, ErrOTPMismatch
	}

	if err := s.checkAccountFree(ctx, pending.Username, pending.Email); err != nil {
		if errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailTaken) {
			if delErr := s.pending.DeletePendingSignup(ctx, pending.ID); delErr != nil {
				return nil, fmt.Errorf("failed to delete conflicting pending signup: %w", delErr)
			}
		}
		return nil, err
	}

	acct := &LocalAccount{
		ID:           uuid.New(),
		Username:     pending.Username,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		CreatedAt:    time.Now(),
	}
	if err := s.accounts.CreateLocalAccount(ctx, acct); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if err := s.pending.DeletePendingSignup(ctx, pending.ID); err != nil {
		return nil, fmt.Errorf("failed to delete pending signup: %w", err)
	}

	s.notifier.SendWelcome(acct.Email, acct.Username)

	return acct, nil
}

// checkUsernameFree rejects usernames held by a verified account or an
// in-flight pending signup. Comparison is exact, no case folding.
func (s *LocalService) checkUsernameFree(ctx context.Context, username string) error {
	if _, err := s.accounts.GetLocalAccountByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.pending.GetPendingSignupByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, ErrPendingNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	return nil
}

func (s *LocalService) checkEmailFree(ctx context.Context, emailAddr string) error {
	if _, err := s.accounts.GetLocalAccountByEmail(ctx, emailAddr); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.pending.GetPendingSignupByEmail(ctx, emailAddr); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, ErrPendingNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

// checkAccountFree re-checks only verified accounts; the pending record
// being promoted necessarily matches itself.
func (s *LocalService) checkAccountFree(ctx context.Context, username, emailAddr string) error {
	if _, err := s.accounts.GetLocalAccountByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.accounts.GetLocalAccountByEmail(ctx, emailAddr); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

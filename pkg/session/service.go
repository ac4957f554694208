package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/doccollab/doccollab/pkg/errors"
	"github.com/doccollab/doccollab/pkg/notification"
	"github.com/doccollab/doccollab/pkg/twofa"
)

// DefaultMinPasswordLength is the minimum accepted password length.
const DefaultMinPasswordLength = 8

// SessionService owns the login/2FA state machine for one client:
// the authenticated account, the pending (password-verified but not yet
// 2FA-confirmed) sign-in, and the enrollment operations. Each client
// process holds its own instance; there is no cross-session shared
// state.
type SessionService struct {
	repo              AccountRepository
	notices           *notification.Manager
	minPasswordLength int

	mu      sync.Mutex
	current *Account
	pending *Account
}

// Option configures a SessionService.
type Option func(*SessionService)

// WithNotificationManager enables best-effort security notices on 2FA
// changes and backup-code consumption.
func WithNotificationManager(m *notification.Manager) Option {
	return func(s *SessionService) {
		s.notices = m
	}
}

// WithMinPasswordLength overrides the password length policy.
func WithMinPasswordLength(n int) Option {
	return func(s *SessionService) {
		s.minPasswordLength = n
	}
}

// NewSessionService creates a SessionService backed by the given
// account repository.
func NewSessionService(repo AccountRepository, opts ...Option) *SessionService {
	s := &SessionService{
		repo:              repo,
		minPasswordLength: DefaultMinPasswordLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUpParams holds the fields for SignUp.
type SignUpParams struct {
	Email    string
	Password string
	Username string
}

// SignUp creates a new account with 2FA disabled and immediately
// establishes an authenticated session for it.
func (s *SessionService) SignUp(ctx context.Context, params SignUpParams) (Account, error) {
	if err := validateSignUp(params, s.minPasswordLength); err != nil {
		return Account{}, err
	}

	account, err := s.repo.CreateAccount(ctx, CreateAccountParams{
		Email:    params.Email,
		Username: params.Username,
		Password: params.Password,
	})
	if err != nil {
		if stderrors.Is(err, ErrAccountExists) {
			return Account{}, errors.Newf(errors.ErrCodeAccountAlreadyExists, "email or username already taken")
		}
		slog.Error("Failed to create account", "email", params.Email, "err", err)
		return Account{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to create account")
	}

	s.mu.Lock()
	s.current = &account
	s.pending = nil
	s.mu.Unlock()

	s.sendNotice(notification.WelcomeNotice, account.Email, map[string]string{
		"Username": account.Username,
	})

	return account.clone(), nil
}

// SignIn verifies the credential. If the account has 2FA disabled the
// session becomes authenticated right away. If 2FA is enabled the
// sign-in is parked as pending and the caller must confirm a code; a
// second SignIn while one is pending replaces the earlier pending
// sign-in rather than stacking it.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	account, err := s.repo.VerifyPassword(ctx, email, password)
	if err != nil {
		if stderrors.Is(err, ErrInvalidCredentials) || stderrors.Is(err, ErrAccountNotFound) {
			// Deliberately the same answer for unknown account and
			// wrong password.
			return SignInResult{}, errors.New(errors.ErrCodeInvalidCredentials, "invalid email or password")
		}
		slog.Error("Failed to verify password", "err", err)
		return SignInResult{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to verify credentials")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if account.TwoFactorEnabled {
		s.current = nil
		s.pending = &account
		return SignInResult{
			Status:            StatusPendingTwoFactor,
			RequiresTwoFactor: true,
		}, nil
	}

	s.current = &account
	s.pending = nil
	snapshot := account.clone()
	return SignInResult{
		Status:  StatusAuthenticated,
		Account: &snapshot,
	}, nil
}

// ConfirmTwoFactor finishes a pending sign-in. The authenticator
// passcode is tried first, then the backup codes. A consumed backup
// code is persisted to the store before success is reported; if that
// persist fails the sign-in stays pending and is NOT authenticated, so
// the caller can retry the whole verification. A wrong code leaves the
// pending sign-in intact for another attempt.
func (s *SessionService) ConfirmTwoFactor(ctx context.Context, code string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return Account{}, errors.New(errors.ErrCodeNoPendingSession, "no sign-in awaiting two-factor confirmation")
	}
	account := *s.pending

	if twofa.VerifyCode(account.TwoFactorSecret, code) {
		s.current = &account
		s.pending = nil
		return account.clone(), nil
	}

	backupAttempted := len(account.BackupCodes) > 0
	ok, remaining := twofa.ConsumeBackupCode(account.BackupCodes, code)
	if !ok {
		return Account{}, errors.New(errors.ErrCode2FAInvalid, "invalid two-factor code").
			WithDetail("passcode_attempted", true).
			WithDetail("backup_attempted", backupAttempted)
	}

	// The code must be durably removed before the login counts: a crash
	// after success but before persist would let it verify twice.
	updated, err := s.repo.UpdateTwoFactor(ctx, UpdateTwoFactorParams{
		AccountID:        account.ID,
		TwoFactorEnabled: account.TwoFactorEnabled,
		TwoFactorSecret:  account.TwoFactorSecret,
		BackupCodes:      remaining,
	})
	if err != nil {
		slog.Error("Failed to persist backup code consumption", "accountId", account.ID, "err", err)
		return Account{}, errors.Wrap(err, errors.ErrCodePersistFailed, "failed to persist backup code consumption")
	}

	s.current = &updated
	s.pending = nil

	s.sendNotice(notification.BackupCodeUsedNotice, updated.Email, map[string]string{
		"Remaining": fmt.Sprintf("%d", len(updated.BackupCodes)),
	})

	return updated.clone(), nil
}

// CancelTwoFactor abandons a pending sign-in without authenticating.
// Safe to call when nothing is pending.
func (s *SessionService) CancelTwoFactor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// BeginEnrollment generates fresh enrollment material for the
// authenticated account: a new secret, its provisioning URI and QR
// image, and a new batch of backup codes. Nothing is written to the
// account; the material only becomes durable through ConfirmEnrollment.
func (s *SessionService) BeginEnrollment(ctx context.Context) (EnrollmentMaterial, error) {
	s.mu.Lock()
	account := s.current
	s.mu.Unlock()

	if account == nil {
		return EnrollmentMaterial{}, errors.New(errors.ErrCodeNotAuthenticated, "no authenticated account")
	}

	secret, err := twofa.GenerateSecret(account.Email)
	if err != nil {
		return EnrollmentMaterial{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to generate enrollment secret")
	}

	qr, err := twofa.RenderQR(secret.ProvisioningURI, 0)
	if err != nil {
		return EnrollmentMaterial{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to render QR code")
	}

	backupCodes, err := twofa.GenerateBackupCodes(0)
	if err != nil {
		return EnrollmentMaterial{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to generate backup codes")
	}

	return EnrollmentMaterial{
		Secret:          secret.Base32,
		ProvisioningURI: secret.ProvisioningURI,
		QRImage:         qr,
		BackupCodes:     backupCodes,
	}, nil
}

// ConfirmEnrollment verifies the code against the material's secret and,
// on success, persists {enabled, secret, backup codes} to the account.
// On failure the account is untouched and the material can be retried
// or discarded.
func (s *SessionService) ConfirmEnrollment(ctx context.Context, material EnrollmentMaterial, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return errors.New(errors.ErrCodeNotAuthenticated, "no authenticated account")
	}

	if !twofa.VerifyCode(material.Secret, code) {
		return errors.New(errors.ErrCode2FAInvalid, "invalid two-factor code")
	}

	updated, err := s.repo.UpdateTwoFactor(ctx, UpdateTwoFactorParams{
		AccountID:        s.current.ID,
		TwoFactorEnabled: true,
		TwoFactorSecret:  material.Secret,
		BackupCodes:      material.BackupCodes,
	})
	if err != nil {
		slog.Error("Failed to enable 2FA", "accountId", s.current.ID, "err", err)
		return errors.Wrap(err, errors.ErrCodePersistFailed, "failed to enable two-factor authentication")
	}

	s.current = &updated

	s.sendNotice(notification.TwoFaEnabledNotice, updated.Email, nil)
	return nil
}

// DisableTwoFactor clears the account's 2FA fields. Idempotent:
// disabling an already-disabled account succeeds.
func (s *SessionService) DisableTwoFactor(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return errors.New(errors.ErrCodeNotAuthenticated, "no authenticated account")
	}

	wasEnabled := s.current.TwoFactorEnabled

	updated, err := s.repo.UpdateTwoFactor(ctx, UpdateTwoFactorParams{
		AccountID:        s.current.ID,
		TwoFactorEnabled: false,
		TwoFactorSecret:  "",
		BackupCodes:      []string{},
	})
	if err != nil {
		slog.Error("Failed to disable 2FA", "accountId", s.current.ID, "err", err)
		return errors.Wrap(err, errors.ErrCodePersistFailed, "failed to disable two-factor authentication")
	}

	s.current = &updated

	if wasEnabled {
		s.sendNotice(notification.TwoFaDisabledNotice, updated.Email, nil)
	}
	return nil
}

// SignOut clears authenticated and pending state unconditionally.
func (s *SessionService) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.pending = nil
}

// Current returns the authenticated account, if any.
func (s *SessionService) Current() (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Account{}, false
	}
	return s.current.clone(), true
}

// Status returns the current state of the login state machine.
func (s *SessionService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.pending != nil:
		return StatusPendingTwoFactor
	case s.current != nil:
		return StatusAuthenticated
	default:
		return StatusAnonymous
	}
}

// Snapshot returns the session state for the presentation layer and the
// access gate. Consult it on every navigation decision; a pending
// challenge can arise mid-session.
func (s *SessionService) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.pending != nil:
		return Session{Status: StatusPendingTwoFactor}
	case s.current != nil:
		snapshot := s.current.clone()
		return Session{Status: StatusAuthenticated, Account: &snapshot}
	default:
		return Session{Status: StatusAnonymous}
	}
}

func (s *SessionService) sendNotice(noticeType notification.NoticeType, to string, data map[string]string) {
	if s.notices == nil {
		return
	}
	if err := s.notices.Send(noticeType, notification.NotificationData{To: to, Data: data}); err != nil {
		slog.Warn("Failed to send security notice", "noticeType", noticeType, "err", err)
	}
}

func validateSignUp(params SignUpParams, minPasswordLength int) error {
	validationErrs := make(map[string]interface{})

	if params.Email == "" {
		validationErrs["email"] = "required"
	} else if !strings.Contains(params.Email, "@") {
		validationErrs["email"] = "invalid format"
	}

	if params.Username == "" {
		validationErrs["username"] = "required"
	}

	if len(params.Password) < minPasswordLength {
		validationErrs["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLength)
	}

	if len(validationErrs) > 0 {
		err := errors.New(errors.ErrCodeValidationFailed, "validation failed")
		for field, reason := range validationErrs {
			err.WithDetail(field, reason)
		}
		return err
	}
	return nil
}

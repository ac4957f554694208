package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors returned by AccountRepository implementations
var (
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// CreateAccountParams holds the fields for a new account. The password
// is hashed by the repository; accounts start with 2FA disabled.
type CreateAccountParams struct {
	Email    string
	Username string
	Password string
}

// UpdateTwoFactorParams updates exactly the persisted 2FA fields of an
// account: enabled flag, secret, and the ordered backup-code list.
type UpdateTwoFactorParams struct {
	AccountID        uuid.UUID
	TwoFactorEnabled bool
	TwoFactorSecret  string
	BackupCodes      []string
}

// AccountRepository is the external user store consumed by the session
// service. Implementations own credential hashing and must apply
// UpdateTwoFactor atomically: a failed update leaves the record as it
// was.
type AccountRepository interface {
	// CreateAccount creates a new account with 2FA disabled. Returns
	// ErrAccountExists if the email or username is taken.
	CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error)

	// VerifyPassword checks the credential for the account registered
	// under email. Returns ErrInvalidCredentials when either the account
	// is unknown or the password does not match; callers must not be
	// able to tell the two apart.
	VerifyPassword(ctx context.Context, email, password string) (Account, error)

	// GetAccountByID retrieves an account by ID. Returns
	// ErrAccountNotFound if it does not exist.
	GetAccountByID(ctx context.Context, id uuid.UUID) (Account, error)

	// UpdateTwoFactor overwrites the account's 2FA fields and returns
	// the updated record.
	UpdateTwoFactor(ctx context.Context, params UpdateTwoFactorParams) (Account, error)
}

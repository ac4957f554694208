package session

import (
	"time"

	"github.com/google/uuid"
)

// Status is the client-visible authentication state.
type Status string

const (
	StatusAnonymous        Status = "anonymous"
	StatusPendingTwoFactor Status = "pending_two_factor"
	StatusAuthenticated    Status = "authenticated"
)

// Account is a user record as seen by the session layer. The credential
// hash never leaves the repository.
type Account struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	TwoFactorSecret  string    `json:"-"`
	BackupCodes      []string  `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// clone deep-copies the account so callers cannot alias the backup code
// slice held by the service or a repository.
func (a Account) clone() Account {
	out := a
	if a.BackupCodes != nil {
		out.BackupCodes = append([]string(nil), a.BackupCodes...)
	}
	return out
}

// EnrollmentMaterial is the transient bundle produced by BeginEnrollment.
// Nothing in it touches the account until ConfirmEnrollment succeeds; an
// abandoned wizard simply drops it.
type EnrollmentMaterial struct {
	Secret          string   `json:"secret"`
	ProvisioningURI string   `json:"provisioning_uri"`
	QRImage         []byte   `json:"qr_image"`
	BackupCodes     []string `json:"backup_codes"`
}

// SignInResult reports the outcome of a password check. When
// RequiresTwoFactor is set the caller is NOT authenticated: the sign-in
// is parked until ConfirmTwoFactor or CancelTwoFactor.
type SignInResult struct {
	Status            Status   `json:"status"`
	RequiresTwoFactor bool     `json:"requires_two_factor"`
	Account           *Account `json:"account,omitempty"`
}

// Session is a point-in-time snapshot of the session state for the
// presentation layer and the access gate.
type Session struct {
	Status  Status   `json:"status"`
	Account *Account `json:"account,omitempty"`
}

package api

import "time"

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TwoFactorVerifyRequest is the body of POST /2fa/verify.
type TwoFactorVerifyRequest struct {
	Code string `json:"code"`
}

// TwoFactorEnableRequest is the body of POST /2fa/enable. It carries the
// material from /2fa/setup back along with a current passcode.
type TwoFactorEnableRequest struct {
	Secret      string   `json:"secret"`
	BackupCodes []string `json:"backup_codes"`
	Code        string   `json:"code"`
}

// AccountResponse is the client-visible account shape.
type AccountResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// LoginResponse reports the outcome of /login, /signup and /2fa/verify.
// AccessToken is only set once the session is authenticated.
type LoginResponse struct {
	Status            string           `json:"status"`
	RequiresTwoFactor bool             `json:"requires_two_factor,omitempty"`
	AccessToken       string           `json:"access_token,omitempty"`
	ExpiresAt         *time.Time       `json:"expires_at,omitempty"`
	Account           *AccountResponse `json:"account,omitempty"`
}

// TwoFactorSetupResponse carries the enrollment material. QRImage is the
// provisioning QR as base64-encoded PNG.
type TwoFactorSetupResponse struct {
	Secret          string   `json:"secret"`
	ProvisioningURI string   `json:"provisioning_uri"`
	QRImage         string   `json:"qr_image"`
	BackupCodes     []string `json:"backup_codes"`
}

// MessageResponse is a generic success body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body for all endpoints.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

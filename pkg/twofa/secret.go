package twofa

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/url"
)

const (
	// Issuer is the issuer name embedded in provisioning URIs.
	Issuer = "DocCollab"

	// SecretLength is the length of generated enrollment secrets.
	SecretLength = 32

	secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"
)

// Secret is a freshly generated enrollment secret together with its
// otpauth provisioning URI for QR rendering. The URI is opaque data to
// the rest of the system.
type Secret struct {
	Base32          string `json:"base32"`
	ProvisioningURI string `json:"provisioning_uri"`
}

// GenerateSecret generates a new 32-character secret over the base32
// alphabet and the provisioning URI that encodes it for an authenticator
// app, labeled with the given account label (normally the email address).
func GenerateSecret(accountLabel string) (Secret, error) {
	if accountLabel == "" {
		return Secret{}, fmt.Errorf("account label cannot be empty")
	}

	buf := make([]byte, SecretLength)
	if _, err := rand.Read(buf); err != nil {
		slog.Error("Failed to read random bytes for secret", "err", err)
		return Secret{}, fmt.Errorf("failed to generate secret: %w", err)
	}
	for i, b := range buf {
		buf[i] = secretAlphabet[int(b)%len(secretAlphabet)]
	}
	secret := string(buf)

	return Secret{
		Base32:          secret,
		ProvisioningURI: ProvisioningURI(secret, accountLabel),
	}, nil
}

// ProvisioningURI builds the otpauth URI for a secret and account label:
//
//	otpauth://totp/DocCollab:<label>?secret=<secret>&issuer=DocCollab
func ProvisioningURI(secret, accountLabel string) string {
	return fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s",
		Issuer, url.PathEscape(accountLabel), secret, Issuer)
}

// Package twofa provides the two-factor authentication primitives for doccollab.
//
// This package covers three concerns:
//   - Enrollment secrets: 32-character base32 secrets plus otpauth
//     provisioning URIs and QR rendering for authenticator apps.
//   - Time-windowed passcodes: deterministic 6-digit codes per 30-second
//     bucket, shared by generator and verifier.
//   - Backup codes: single-use 8-character recovery codes consumed by
//     exact match.
//
// # Basic Usage
//
//	import "github.com/doccollab/doccollab/pkg/twofa"
//
//	secret, err := twofa.GenerateSecret("alice@example.com")
//	qr, err := twofa.RenderQR(secret.ProvisioningURI, 0)
//	codes, err := twofa.GenerateBackupCodes(0)
//
//	// Later, at verification time:
//	if twofa.VerifyCode(secret.Base32, supplied) { ... }
//	ok, remaining := twofa.ConsumeBackupCode(codes, supplied)
//
// # Security
//
// The passcode derivation here is deliberately NOT standard TOTP: it is
// the weak time-bucketed formula the existing client population was
// enrolled against. Treat it as a compatibility contract, not a security
// mechanism, and see the DeriveCode docs for the hardening path.
package twofa

package twofa

import (
	"fmt"
	"time"
)

// Period is the width of a passcode time bucket in seconds. Exactly one
// bucket is accepted during verification; there is no skew tolerance.
const Period = 30

// DeriveCode derives the passcode for a secret at the current time.
//
// SECURITY: this is NOT RFC 6238 TOTP. The code is a linear function of
// the 30-second time bucket mixed with a byte sum of the secret,
// preserved for compatibility with existing enrolled clients. A hardened
// deployment should swap in an HMAC-based derivation behind DeriveCodeAt
// and VerifyCode without changing their signatures.
func DeriveCode(secret string) string {
	return DeriveCodeAt(secret, time.Now())
}

// DeriveCodeAt derives the 6-digit zero-padded passcode for a secret at
// an arbitrary time. Timestamps within the same 30-second bucket always
// yield the same code.
func DeriveCodeAt(secret string, t time.Time) string {
	bucket := t.Unix() / Period

	var mix int64
	for _, b := range []byte(secret) {
		mix += int64(b)
	}

	code := (bucket*12345 + mix) % 1000000
	if code < 0 {
		code += 1000000
	}
	return fmt.Sprintf("%06d", code)
}

// VerifyCode reports whether the supplied code matches the expected
// passcode for the current time bucket. Input that is not exactly six
// ASCII digits is rejected without deriving anything.
func VerifyCode(secret, supplied string) bool {
	if !isSixDigits(supplied) {
		return false
	}
	return supplied == DeriveCode(secret)
}

func isSixDigits(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

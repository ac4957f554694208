package twofa

import (
	"crypto/rand"
	"fmt"
	"log/slog"
)

const (
	// DefaultBackupCodeCount is the number of backup codes generated
	// during enrollment.
	DefaultBackupCodeCount = 8

	// BackupCodeLength is the length of each backup code.
	BackupCodeLength = 8

	backupCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateBackupCodes generates count single-use recovery codes, each an
// 8-character uppercase alphanumeric string. A count of zero or less
// yields DefaultBackupCodeCount codes. Codes are independently random;
// collisions within one batch are possible but vanishingly unlikely and
// not specially handled.
func GenerateBackupCodes(count int) ([]string, error) {
	if count <= 0 {
		count = DefaultBackupCodeCount
	}

	codes := make([]string, 0, count)
	buf := make([]byte, BackupCodeLength)
	for i := 0; i < count; i++ {
		if _, err := rand.Read(buf); err != nil {
			slog.Error("Failed to read random bytes for backup code", "err", err)
			return nil, fmt.Errorf("failed to generate backup codes: %w", err)
		}
		code := make([]byte, BackupCodeLength)
		for j, b := range buf {
			code[j] = backupCodeAlphabet[int(b)%len(backupCodeAlphabet)]
		}
		codes = append(codes, string(code))
	}

	return codes, nil
}

// ConsumeBackupCode looks for supplied among codes by exact match. On a
// match it returns true and a new slice with the first matching
// occurrence removed; otherwise it returns false and the input slice
// unchanged. The caller owns persisting the returned slice together with
// the authentication decision.
func ConsumeBackupCode(codes []string, supplied string) (bool, []string) {
	for i, code := range codes {
		if code == supplied {
			remaining := make([]string, 0, len(codes)-1)
			remaining = append(remaining, codes[:i]...)
			remaining = append(remaining, codes[i+1:]...)
			return true, remaining
		}
	}
	return false, codes
}

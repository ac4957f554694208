package twofa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	secret, err := GenerateSecret("alice@example.com")
	require.NoError(t, err)

	assert.Len(t, secret.Base32, SecretLength)
	for _, c := range secret.Base32 {
		assert.Contains(t, secretAlphabet, string(c))
	}

	assert.True(t, strings.HasPrefix(secret.ProvisioningURI, "otpauth://totp/DocCollab:"))
	assert.Contains(t, secret.ProvisioningURI, "secret="+secret.Base32)
	assert.Contains(t, secret.ProvisioningURI, "issuer=DocCollab")
}

func TestGenerateSecret_Fresh(t *testing.T) {
	s1, err := GenerateSecret("alice@example.com")
	require.NoError(t, err)
	s2, err := GenerateSecret("alice@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, s1.Base32, s2.Base32)
}

func TestGenerateSecret_EmptyLabel(t *testing.T) {
	_, err := GenerateSecret("")
	assert.Error(t, err)
}

func TestProvisioningURI_EscapesLabel(t *testing.T) {
	uri := ProvisioningURI("ABCDEFGHIJKLMNOPQRSTUVWXYZ234567", "alice smith@example.com")

	assert.NotContains(t, uri, "alice smith")
	assert.Contains(t, uri, "alice%20smith@example.com")
}

func TestRenderQR(t *testing.T) {
	secret, err := GenerateSecret("alice@example.com")
	require.NoError(t, err)

	img, err := RenderQR(secret.ProvisioningURI, 0)
	require.NoError(t, err)

	// PNG signature
	require.True(t, len(img) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, img[:8])
}

func TestRenderQR_InvalidURI(t *testing.T) {
	_, err := RenderQR("not-a-provisioning-uri", 0)
	assert.Error(t, err)
}

func TestGenerateBackupCodes(t *testing.T) {
	codes, err := GenerateBackupCodes(0)
	require.NoError(t, err)
	require.Len(t, codes, DefaultBackupCodeCount)

	for _, code := range codes {
		assert.Len(t, code, BackupCodeLength)
		for _, c := range code {
			assert.Contains(t, backupCodeAlphabet, string(c))
		}
	}
}

func TestGenerateBackupCodes_CustomCount(t *testing.T) {
	codes, err := GenerateBackupCodes(3)
	require.NoError(t, err)
	assert.Len(t, codes, 3)
}

func TestConsumeBackupCode(t *testing.T) {
	codes := []string{"AAAA1111", "BBBB2222", "CCCC3333"}

	ok, remaining := ConsumeBackupCode(codes, "BBBB2222")
	require.True(t, ok)
	assert.Equal(t, []string{"AAAA1111", "CCCC3333"}, remaining)

	// A consumed code must never verify twice.
	ok, remaining2 := ConsumeBackupCode(remaining, "BBBB2222")
	assert.False(t, ok)
	assert.Equal(t, remaining, remaining2)
}

func TestConsumeBackupCode_NoMatch(t *testing.T) {
	codes := []string{"AAAA1111", "BBBB2222"}

	ok, remaining := ConsumeBackupCode(codes, "ZZZZ9999")
	assert.False(t, ok)
	assert.Equal(t, codes, remaining)
}

func TestConsumeBackupCode_FirstOccurrenceOnly(t *testing.T) {
	codes := []string{"AAAA1111", "DUPE0000", "DUPE0000"}

	ok, remaining := ConsumeBackupCode(codes, "DUPE0000")
	require.True(t, ok)
	assert.Equal(t, []string{"AAAA1111", "DUPE0000"}, remaining)
}

func TestConsumeBackupCode_DoesNotMutateInput(t *testing.T) {
	codes := []string{"AAAA1111", "BBBB2222", "CCCC3333"}

	ok, _ := ConsumeBackupCode(codes, "AAAA1111")
	require.True(t, ok)
	assert.Equal(t, []string{"AAAA1111", "BBBB2222", "CCCC3333"}, codes)
}

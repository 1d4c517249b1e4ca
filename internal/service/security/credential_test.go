package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"admin-console/internal/crypto"
	"admin-console/internal/domain"
)

func newTestManager(t *testing.T) *CredentialManager {
	t.Helper()
	codec, err := crypto.NewCodec("test-key-material")
	require.NoError(t, err)
	return NewCredentialManager(codec)
}

func legacyHash(t *testing.T, secret string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestCredentialManager_WriteProducesEncrypted(t *testing.T) {
	m := newTestManager(t)

	stored, err := m.OnWrite("Password123!")
	require.NoError(t, err)
	assert.Equal(t, crypto.FormatEncrypted, crypto.Classify(stored))
}

func TestCredentialManager_VerifyEncrypted(t *testing.T) {
	m := newTestManager(t)

	stored, err := m.OnWrite("Password123!")
	require.NoError(t, err)

	assert.True(t, m.OnVerify("Password123!", stored))
	assert.False(t, m.OnVerify("WrongPass1!", stored))
}

func TestCredentialManager_VerifyLegacy(t *testing.T) {
	m := newTestManager(t)
	hash := legacyHash(t, "Password123!")

	assert.True(t, m.OnVerify("Password123!", hash))
	assert.False(t, m.OnVerify("WrongPass1!", hash))
}

func TestCredentialManager_VerifyUnknownFailsClosed(t *testing.T) {
	m := newTestManager(t)

	// A plaintext-looking record matches nothing, not even itself.
	assert.False(t, m.OnVerify("hunter2", "hunter2"))
	assert.False(t, m.OnVerify("", ""))
	assert.False(t, m.OnVerify("Password123!", "corrupted:record:extra"))
}

func TestCredentialManager_RevealEncrypted(t *testing.T) {
	m := newTestManager(t)

	stored, err := m.OnWrite("Password123!")
	require.NoError(t, err)

	secret, err := m.OnReveal(stored)
	require.NoError(t, err)
	assert.Equal(t, "Password123!", secret)
}

func TestCredentialManager_RevealLegacyIsIrreversible(t *testing.T) {
	m := newTestManager(t)

	_, err := m.OnReveal(legacyHash(t, "Password123!"))
	assert.ErrorIs(t, err, domain.ErrIrreversible)
}

func TestCredentialManager_RevealUnknownFails(t *testing.T) {
	m := newTestManager(t)

	_, err := m.OnReveal("not-a-credential")
	var decodeErr *crypto.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

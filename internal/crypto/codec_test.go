package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec("test-key-material")
	require.NoError(t, err)
	return c
}

func TestNewCodec_EmptyKeyMaterial(t *testing.T) {
	_, err := NewCodec("")
	require.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newTestCodec(t)

	for _, secret := range []string{"Password123!", "", "päss wörd", strings.Repeat("x", 1000)} {
		stored, err := c.Encrypt(secret)
		require.NoError(t, err)

		got, err := c.Decrypt(stored)
		require.NoError(t, err)
		assert.Equal(t, secret, got)
	}
}

func TestCodec_EncryptUsesFreshIV(t *testing.T) {
	c := newTestCodec(t)

	first, err := c.Encrypt("Password123!")
	require.NoError(t, err)
	second, err := c.Encrypt("Password123!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCodec_StoredForm(t *testing.T) {
	c := newTestCodec(t)

	stored, err := c.Encrypt("Password123!")
	require.NoError(t, err)

	parts := strings.Split(stored, ":")
	require.Len(t, parts, 2)
	assert.NotEmpty(t, parts[0])
	assert.NotEmpty(t, parts[1])
	assert.Equal(t, FormatEncrypted, Classify(stored))
}

func TestCodec_DecryptFaults(t *testing.T) {
	c := newTestCodec(t)

	valid, err := c.Encrypt("Password123!")
	require.NoError(t, err)
	parts := strings.Split(valid, ":")

	tests := []struct {
		name   string
		stored string
	}{
		{"no separator", "deadbeef"},
		{"too many parts", valid + ":deadbeef"},
		{"empty iv", ":" + parts[1]},
		{"empty ciphertext", parts[0] + ":"},
		{"iv not hex", "zzzz:" + parts[1]},
		{"ciphertext not hex", parts[0] + ":zzzz"},
		{"iv wrong length", "deadbeef:" + parts[1]},
		{"tampered ciphertext", parts[0] + ":" + flipHexDigit(parts[1])},
		{"legacy hash", "$2a$10$abcdefghijklmnopqrstuv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decrypt(tt.stored)
			require.Error(t, err)
			var decodeErr *DecodeError
			assert.ErrorAs(t, err, &decodeErr)
		})
	}
}

func TestCodec_WrongKeyFailsAuthentication(t *testing.T) {
	c1 := newTestCodec(t)
	c2, err := NewCodec("a-different-key")
	require.NoError(t, err)

	stored, err := c1.Encrypt("Password123!")
	require.NoError(t, err)

	_, err = c2.Decrypt(stored)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   Format
	}{
		{"bcrypt 2a", "$2a$10$N9qo8uLOickgx2ZMRZoMye", FormatLegacy},
		{"bcrypt 2b", "$2b$12$R9h/cIPz0gi.URNNX3kh2O", FormatLegacy},
		{"encrypted", "deadbeef:cafebabe", FormatEncrypted},
		{"empty", "", FormatUnknown},
		{"plaintext", "hunter2", FormatUnknown},
		{"missing ciphertext", "deadbeef:", FormatUnknown},
		{"missing iv", ":cafebabe", FormatUnknown},
		{"three parts", "aa:bb:cc", FormatUnknown},
		{"non-hex parts", "hello:world", FormatUnknown},
		{"bcrypt 2y is not legacy", "$2y$10$N9qo8uLOickgx2ZMRZoMye", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.stored))
		})
	}
}

func TestClassify_SystemProducedIsNeverUnknown(t *testing.T) {
	c := newTestCodec(t)

	stored, err := c.Encrypt("Password123!")
	require.NoError(t, err)
	assert.Equal(t, FormatEncrypted, Classify(stored))

	hash, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, FormatLegacy, Classify(string(hash)))
}

func TestCompareLegacy(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CompareLegacy("Password123!", string(hash)))
	assert.False(t, CompareLegacy("WrongPass1!", string(hash)))
	assert.False(t, CompareLegacy("Password123!", "not-a-hash"))
}

// flipHexDigit changes the last hex digit so the ciphertext no longer
// authenticates.
func flipHexDigit(s string) string {
	last := s[len(s)-1]
	replacement := byte('0')
	if last == '0' {
		replacement = '1'
	}
	return s[:len(s)-1] + string(replacement)
}

// Package crypto implements the credential codec: reversible symmetric
// encryption of account secrets, detection of the coexisting legacy-hash
// format, and legacy hash comparison.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// separator joins the hex-encoded IV and ciphertext in the stored form.
const separator = ":"

// legacyPrefixes identify one-way bcrypt hashes that predate the encrypted
// format. Records in this form coexist indefinitely with encrypted ones and
// are migrated lazily on write.
var legacyPrefixes = []string{"$2a$", "$2b$"}

// Format classifies a stored credential string.
type Format int

const (
	FormatUnknown Format = iota
	FormatLegacy
	FormatEncrypted
)

func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatEncrypted:
		return "encrypted"
	default:
		return "unknown"
	}
}

// DecodeError indicates a stored credential that could not be decrypted:
// wrong part count, invalid hex, or an authentication failure.
type DecodeError struct {
	Message string
}

func (e *DecodeError) Error() string { return e.Message }

func errDecode(format string, args ...interface{}) *DecodeError {
	return &DecodeError{Message: fmt.Sprintf(format, args...)}
}

// Codec encrypts and decrypts secrets with AES-256-GCM. The effective key is
// the SHA-256 digest of the configured key-material, so any key-material
// length yields a fixed 32-byte key.
type Codec struct {
	gcm cipher.AEAD
}

// NewCodec creates a Codec from the configured key-material string.
func NewCodec(keyMaterial string) (*Codec, error) {
	if keyMaterial == "" {
		return nil, fmt.Errorf("encryption key-material is required")
	}
	key := sha256.Sum256([]byte(keyMaterial))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return &Codec{gcm: gcm}, nil
}

// Encrypt encrypts a secret under a fresh random IV and returns the
// iv:ciphertext stored form, both parts hex-encoded. IVs are never reused,
// so two encryptions of the same secret produce different strings.
func (c *Codec) Encrypt(secret string) (string, error) {
	iv := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}
	ciphertext := c.gcm.Seal(nil, iv, []byte(secret), nil)
	return hex.EncodeToString(iv) + separator + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Any structural or authentication fault returns a
// *DecodeError; the secret is never partially recovered.
func (c *Codec) Decrypt(stored string) (string, error) {
	parts := strings.Split(stored, separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", errDecode("credential is not in iv%sciphertext form", separator)
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", errDecode("decode iv: %v", err)
	}
	if len(iv) != c.gcm.NonceSize() {
		return "", errDecode("iv must be %d bytes, got %d", c.gcm.NonceSize(), len(iv))
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", errDecode("decode ciphertext: %v", err)
	}
	secret, err := c.gcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return "", errDecode("decrypt credential: %v", err)
	}
	return string(secret), nil
}

// Classify determines the format of a stored credential from its shape
// alone. Legacy wins over Encrypted: the legacy prefix is checked first, and
// anything that is neither a legacy hash nor a well-formed iv:ciphertext
// pair is Unknown.
func Classify(stored string) Format {
	for _, prefix := range legacyPrefixes {
		if strings.HasPrefix(stored, prefix) {
			return FormatLegacy
		}
	}
	parts := strings.Split(stored, separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return FormatUnknown
	}
	for _, p := range parts {
		if _, err := hex.DecodeString(p); err != nil {
			return FormatUnknown
		}
	}
	return FormatEncrypted
}

// CompareLegacy checks a candidate secret against a legacy one-way hash
// using bcrypt's constant-time comparator.
func CompareLegacy(candidate, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}

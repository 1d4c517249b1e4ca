// Package security implements the credential lifecycle and the account
// operation orchestrator on top of the codec, token issuer, and
// authorization matrix.
package security

import (
	"admin-console/internal/crypto"
	"admin-console/internal/domain"
)

// CredentialManager orchestrates the per-record migration between the two
// coexisting stored-credential formats. Writes always produce the encrypted
// form; reads verify against whichever form the record is in. Legacy records
// are converted lazily, only as a side effect of a write.
type CredentialManager struct {
	codec *crypto.Codec
}

// NewCredentialManager creates a CredentialManager backed by the codec.
func NewCredentialManager(codec *crypto.Codec) *CredentialManager {
	return &CredentialManager{codec: codec}
}

// OnWrite produces the stored form for a new or updated secret. The legacy
// format is never written.
func (m *CredentialManager) OnWrite(secret string) (string, error) {
	return m.codec.Encrypt(secret)
}

// OnVerify checks a candidate secret against a stored credential in either
// format. It fails closed: any decode fault or unknown format yields false.
func (m *CredentialManager) OnVerify(candidate, stored string) bool {
	switch crypto.Classify(stored) {
	case crypto.FormatLegacy:
		return crypto.CompareLegacy(candidate, stored)
	case crypto.FormatEncrypted:
		secret, err := m.codec.Decrypt(stored)
		if err != nil {
			return false
		}
		return candidate == secret
	default:
		return false
	}
}

// OnReveal recovers the plaintext secret from a stored credential. Legacy
// hashes are one-way and return ErrIrreversible.
func (m *CredentialManager) OnReveal(stored string) (string, error) {
	if crypto.Classify(stored) == crypto.FormatLegacy {
		return "", domain.ErrIrreversible
	}
	return m.codec.Decrypt(stored)
}

// Package crypto derives all key material from the bearer token. The server
// never holds a master key: the token's first 32 bytes are the AES-256 key
// and its last 16 bytes the GCM nonce, so stored ciphertext is unrecoverable
// without the token the client walked away with.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/weedz/secrets/internal/domain"
)

const (
	// TokenLen is the decoded length of a capability token.
	TokenLen = 48

	// TagLen is the length of the GCM authentication tag.
	TagLen = 16

	keyLen   = 32
	nonceLen = 16
)

// ErrTokenSize is returned when a token is not exactly TokenLen bytes.
var ErrTokenSize = errors.New("token must be 48 bytes")

// NewToken generates a fresh capability token from a cryptographically
// secure random source.
func NewToken() ([]byte, error) {
	token := make([]byte, TokenLen)
	if _, err := io.ReadFull(rand.Reader, token); err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}
	return token, nil
}

// DeriveLookupHash computes the one-way storage key for a token. Storage
// only ever sees this digest, never the token.
func DeriveLookupHash(token []byte) string {
	sum := blake2b.Sum256(token)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func newAEAD(token []byte) (cipher.AEAD, error) {
	if len(token) != TokenLen {
		return nil, ErrTokenSize
	}
	block, err := aes.NewCipher(token[:keyLen])
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, nonceLen)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return gcm, nil
}

// Encrypt seals plaintext under the token's key material and returns the
// ciphertext and authentication tag separately, so the tag can travel with
// the token rather than the stored row.
func Encrypt(token, plaintext []byte) (ciphertext, tag []byte, err error) {
	gcm, err := newAEAD(token)
	if err != nil {
		return nil, nil, err
	}
	sealed := gcm.Seal(nil, token[TokenLen-nonceLen:], plaintext, nil)
	return sealed[:len(sealed)-TagLen], sealed[len(sealed)-TagLen:], nil
}

// Decrypt is the inverse of Encrypt. A tag or key mismatch surfaces as
// domain.ErrAuthenticationFailed with no further detail.
func Decrypt(token, tag, ciphertext []byte) ([]byte, error) {
	gcm, err := newAEAD(token)
	if err != nil {
		return nil, err
	}
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	plaintext, err := gcm.Open(nil, token[TokenLen-nonceLen:], sealed, nil)
	if err != nil {
		return nil, domain.ErrAuthenticationFailed
	}
	return plaintext, nil
}

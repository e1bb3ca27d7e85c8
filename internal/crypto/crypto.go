package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
)

const (
	SaltSize  = 16 // Salt size in bytes
	KeySize   = 32 // AES-256 key size
	NonceSize = 12 // GCM nonce size
	TagSize   = 16 // GCM authentication tag size

	// HeaderSize is the salt plus nonce prefix of every container
	HeaderSize = SaltSize + NonceSize

	// MinContainerSize is the smallest container that can possibly open
	MinContainerSize = HeaderSize + TagSize
)

var (
	ErrKeyDerivation           = errors.New("key derivation failed")
	ErrInvalidKeyOrNonceLength = errors.New("invalid key or nonce length")
	ErrMalformedContainer      = errors.New("malformed container")
	ErrAuthFailed              = errors.New("authentication failed")
)

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// NewSalt draws a fresh salt from the system CSPRNG
func NewSalt() (salt [SaltSize]byte, err error) {
	if _, err := rand.Read(salt[:]); err != nil {
		return salt, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// NewNonce draws a fresh nonce from the system CSPRNG.
// There is intentionally no way to supply a nonce from outside this package.
func NewNonce() (nonce [NonceSize]byte, err error) {
	if _, err := rand.Read(nonce[:]); err != nil {
		return nonce, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

package crypto

import (
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id cost parameters used for every container.
// The container format does not record them, so changing any of these
// makes existing containers undecryptable.
const (
	DefaultArgonTime    = 3         // Passes over memory
	DefaultArgonMemory  = 64 * 1024 // KiB (64 MiB)
	DefaultArgonThreads = 4         // Lanes
)

// KeyDeriver turns a password and salt into a KeySize key
type KeyDeriver interface {
	DeriveKey(password, salt []byte) ([]byte, error)
}

// Argon2id derives keys with the Argon2id memory-hard function
type Argon2id struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultKDF returns the Argon2id parameters of the container format
func DefaultKDF() Argon2id {
	return Argon2id{
		Time:    DefaultArgonTime,
		Memory:  DefaultArgonMemory,
		Threads: DefaultArgonThreads,
	}
}

// Validate checks the cost parameters before any work is done
func (a Argon2id) Validate() error {
	if a.Time == 0 {
		return fmt.Errorf("%w: time must be at least 1", ErrKeyDerivation)
	}
	if a.Threads == 0 {
		return fmt.Errorf("%w: threads must be at least 1", ErrKeyDerivation)
	}
	if a.Memory < 8*uint32(a.Threads) {
		return fmt.Errorf("%w: memory must be at least %d KiB for %d threads",
			ErrKeyDerivation, 8*uint32(a.Threads), a.Threads)
	}
	return nil
}

// DeriveKey derives a KeySize key from password and salt.
// The same password and salt always produce the same key.
// The caller owns the returned key and should ClearBytes it when done.
func (a Argon2id) DeriveKey(password, salt []byte) (key []byte, err error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrKeyDerivation, SaltSize, len(salt))
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	// argon2 panics on parameters it cannot honour, including allocation failure
	defer func() {
		if r := recover(); r != nil {
			ClearBytes(key)
			key = nil
			err = fmt.Errorf("%w: %v", ErrKeyDerivation, r)
		}
	}()

	key = argon2.IDKey(password, salt, a.Time, a.Memory, a.Threads, KeySize)
	return key, nil
}

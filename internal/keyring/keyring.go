// Package keyring keeps sealfile passwords in the OS keyring, one entry
// per index ID.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "sealfile"

// ErrNotFound is returned when no password is stored for an index
var ErrNotFound = keyring.ErrNotFound

// SavePassword stores a password in the OS keyring
func SavePassword(indexID string, password []byte) error {
	if indexID == "" {
		return errors.New("index ID required")
	}
	if err := keyring.Set(serviceName, indexID, string(password)); err != nil {
		return fmt.Errorf("failed to save password to keyring: %w", err)
	}
	return nil
}

// GetPassword retrieves a password from the OS keyring
func GetPassword(indexID string) ([]byte, error) {
	password, err := keyring.Get(serviceName, indexID)
	if err != nil {
		return nil, err
	}
	return []byte(password), nil
}

// DeletePassword removes a password from the OS keyring
func DeletePassword(indexID string) error {
	return keyring.Delete(serviceName, indexID)
}

// HasPassword checks if a password is stored in the keyring
func HasPassword(indexID string) bool {
	_, err := keyring.Get(serviceName, indexID)
	return err == nil
}

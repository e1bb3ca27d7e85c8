package core

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/sealfile/internal/crypto"
	"golang.org/x/term"
)

// PasswordEnv names the environment variable holding the password
const PasswordEnv = "SEALFILE_PASSWORD"

var ErrPasswordMismatch = errors.New("passwords do not match")

// ReadPassword reads a password from the terminal without echoing.
// The prompt goes to stderr so stdout stays clean for piping.
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// ReadPasswordConfirm reads a password twice and ensures they match
func ReadPasswordConfirm() ([]byte, error) {
	password1, err := ReadPassword("Enter password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password1)

	password2, err := ReadPassword("Confirm password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password2)

	if !crypto.ConstantTimeCompare(password1, password2) {
		return nil, ErrPasswordMismatch
	}

	return append([]byte(nil), password1...), nil
}

// GetPasswordFromEnv reads the password from SEALFILE_PASSWORD.
// Returns nil when the variable is unset or empty.
func GetPasswordFromEnv() []byte {
	password := os.Getenv(PasswordEnv)
	if password == "" {
		return nil
	}
	return []byte(password)
}

package core

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/illarion/sealfile/internal/crypto"
)

var (
	ErrNotInitialized = errors.New("sealfile index not found")
	ErrNoFiles        = errors.New("no files matched")
	ErrNotSealed      = errors.New("not a sealed file")
)

// IOError wraps a failure of the file collaborators with the operation
// and path. Unwrap returns the original error unchanged.
type IOError struct {
	Op   string // "read", "write", "stat", "remove"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func newIOError(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

// IsIOError checks if an error came from reading or writing a file
func IsIOError(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

// ErrorKind names the error category for user-facing reports
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, crypto.ErrAuthFailed):
		return "authentication failure"
	case errors.Is(err, crypto.ErrMalformedContainer):
		return "malformed container"
	case errors.Is(err, crypto.ErrKeyDerivation):
		return "key derivation error"
	case errors.Is(err, crypto.ErrInvalidKeyOrNonceLength):
		return "invalid key or nonce length"
	case IsIOError(err), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return "io error"
	default:
		return "error"
	}
}

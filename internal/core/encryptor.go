package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/illarion/sealfile/internal/crypto"
	"github.com/illarion/sealfile/internal/security"
)

// FilePermSecure is the mode for containers and restored plaintext
const FilePermSecure = 0600

// FileStore is the byte-buffer file collaborator
type FileStore interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
}

// Encryptor seals plaintext into containers and opens them again.
// It holds no key material between calls and is safe for concurrent use.
type Encryptor struct {
	kdf    crypto.KeyDeriver
	files  FileStore
	logger *slog.Logger
}

// Option configures an Encryptor
type Option func(*Encryptor)

// WithKDF replaces the default Argon2id parameters
func WithKDF(kdf crypto.KeyDeriver) Option {
	return func(e *Encryptor) {
		e.kdf = kdf
	}
}

// WithFileStore sets the collaborator used by EncryptFile and DecryptFile
func WithFileStore(files FileStore) Option {
	return func(e *Encryptor) {
		e.files = files
	}
}

// WithLogger sets the logger for file-level operations
func WithLogger(logger *slog.Logger) Option {
	return func(e *Encryptor) {
		e.logger = logger
	}
}

// NewEncryptor creates an Encryptor using the container's Argon2id
// parameters and unrestricted OS file access unless overridden.
func NewEncryptor(opts ...Option) *Encryptor {
	e := &Encryptor{
		kdf:    crypto.DefaultKDF(),
		files:  security.OSFiles{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encrypt derives a key from password and a fresh salt, seals plaintext
// under a fresh nonce and returns salt || nonce || ciphertext||tag.
func (e *Encryptor) Encrypt(plaintext, password []byte) ([]byte, error) {
	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, err
	}
	nonce, err := crypto.NewNonce()
	if err != nil {
		return nil, err
	}

	key, err := e.kdf.DeriveKey(password, salt[:])
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(key)

	ciphertext, err := crypto.Seal(key, nonce[:], plaintext)
	if err != nil {
		return nil, err
	}

	return crypto.Serialize(salt, nonce, ciphertext), nil
}

// Decrypt parses a container, re-derives the key and opens the ciphertext.
// A container too short to hold salt and nonce fails before the KDF runs.
// A wrong password and a corrupted container both return crypto.ErrAuthFailed.
func (e *Encryptor) Decrypt(container, password []byte) ([]byte, error) {
	c, err := crypto.Deserialize(container)
	if err != nil {
		return nil, err
	}

	key, err := e.kdf.DeriveKey(password, c.Salt[:])
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(key)

	return crypto.Open(key, c.Nonce[:], c.Ciphertext)
}

// EncryptFile reads in, encrypts it and writes the container to out.
// Nothing is written unless encryption succeeds.
func (e *Encryptor) EncryptFile(ctx context.Context, in, out string, password []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	plaintext, err := e.files.ReadFile(in)
	if err != nil {
		return newIOError("read", in, err)
	}
	defer crypto.ClearBytes(plaintext)

	container, err := e.Encrypt(plaintext, password)
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", in, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.files.WriteFile(out, container, FilePermSecure); err != nil {
		return newIOError("write", out, err)
	}

	e.logger.Debug("encrypted file", "in", in, "out", out, "size", len(plaintext))
	return nil
}

// DecryptFile reads the container at in, decrypts it and writes the
// plaintext to out with owner-only permissions.
func (e *Encryptor) DecryptFile(ctx context.Context, in, out string, password []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	container, err := e.files.ReadFile(in)
	if err != nil {
		return newIOError("read", in, err)
	}

	plaintext, err := e.Decrypt(container, password)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(plaintext)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.files.WriteFile(out, plaintext, FilePermSecure); err != nil {
		return newIOError("write", out, err)
	}

	e.logger.Debug("decrypted file", "in", in, "out", out, "size", len(plaintext))
	return nil
}

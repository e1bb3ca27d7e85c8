package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrPathEscapes  = errors.New("path escapes working directory")
	ErrAbsolutePath = errors.New("absolute paths are not allowed")
	ErrEmptyPath    = errors.New("empty path not allowed")
)

// PathValidator confines file reads and writes to one directory tree
// using the os.Root API. Batch seal/unseal go through it so that paths
// taken from the index or from globs can never leave the working directory.
type PathValidator struct {
	repoRoot *os.Root
	repoPath string
}

// New opens a PathValidator rooted at dir
func New(dir string) (*PathValidator, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open root %s: %w", absPath, err)
	}

	return &PathValidator{
		repoRoot: root,
		repoPath: absPath,
	}, nil
}

// Close releases the root handle
func (pv *PathValidator) Close() error {
	if pv.repoRoot != nil {
		return pv.repoRoot.Close()
	}
	return nil
}

// ValidateAndNormalize returns userPath as a clean, slash-separated path
// relative to the root. Empty, absolute and escaping paths are rejected,
// as are names filepath.IsLocal refuses (e.g. Windows reserved names).
func (pv *PathValidator) ValidateAndNormalize(userPath string) (string, error) {
	if userPath == "" {
		return "", ErrEmptyPath
	}

	if !filepath.IsLocal(userPath) {
		if filepath.IsAbs(userPath) {
			return "", fmt.Errorf("%w: %s", ErrAbsolutePath, userPath)
		}
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, userPath)
	}

	cleanPath := filepath.Clean(userPath)
	relPath, err := filepath.Rel(pv.repoPath, filepath.Join(pv.repoPath, cleanPath))
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path: %w", err)
	}
	if strings.HasPrefix(relPath, "..") || filepath.IsAbs(relPath) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, userPath)
	}

	return filepath.ToSlash(relPath), nil
}

// ValidateExistingPath validates a path read back from the index
func (pv *PathValidator) ValidateExistingPath(storedPath string) (string, error) {
	return pv.ValidateAndNormalize(filepath.FromSlash(storedPath))
}

// Rel converts a path given on the command line (absolute or relative to
// the process working directory) into a validated root-relative path.
func (pv *PathValidator) Rel(path string) (string, error) {
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(pv.repoPath, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", fmt.Errorf("%w: %s", ErrPathEscapes, path)
		}
		path = rel
	}
	return pv.ValidateAndNormalize(path)
}

// WriteFile safely writes a file within the repository using os.Root.
// Parent directories are created as needed. The path must be relative and
// will be validated, so a tampered index cannot write outside the repository.
func (pv *PathValidator) WriteFile(path string, data []byte, perm os.FileMode) error {
	platformPath := filepath.FromSlash(path)

	if _, err := pv.ValidateAndNormalize(platformPath); err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	if dir := filepath.Dir(platformPath); dir != "." {
		if err := pv.repoRoot.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return pv.repoRoot.WriteFile(platformPath, data, perm)
}

// ReadFile safely reads a file within the repository using os.Root.
func (pv *PathValidator) ReadFile(path string) ([]byte, error) {
	platformPath := filepath.FromSlash(path)

	if _, err := pv.ValidateAndNormalize(platformPath); err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	return pv.repoRoot.ReadFile(platformPath)
}

// Stat safely stats a file within the repository using os.Root.
func (pv *PathValidator) Stat(path string) (os.FileInfo, error) {
	platformPath := filepath.FromSlash(path)

	if _, err := pv.ValidateAndNormalize(platformPath); err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	return pv.repoRoot.Stat(platformPath)
}

// Remove safely removes a file within the repository using os.Root.
func (pv *PathValidator) Remove(path string) error {
	platformPath := filepath.FromSlash(path)

	if _, err := pv.ValidateAndNormalize(platformPath); err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	return pv.repoRoot.Remove(platformPath)
}

// Root returns the absolute repository path
func (pv *PathValidator) Root() string {
	return pv.repoPath
}

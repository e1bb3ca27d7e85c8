package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/illarion/sealfile/internal/crypto"
	"github.com/illarion/sealfile/internal/git"
	"github.com/illarion/sealfile/internal/security"
	"github.com/illarion/sealfile/internal/storage"
)

const (
	DefaultSuffix = ".sealed"
	DefaultIndex  = ".sealfile"
	KeepBothExt   = ".from-container"
)

// ConflictStrategy decides what unseal does when the target already
// exists with different content
type ConflictStrategy int

const (
	StrategyKeepLocal ConflictStrategy = iota // Leave the local file, report it as skipped
	StrategyOverwrite                         // Replace the local file
	StrategyKeepBoth                          // Write the container's content next to it
)

// Options configures a Workspace
type Options struct {
	Suffix  string // Appended to sealed file names
	Index   string // Index database path, relative to the workspace
	Workers int    // Files processed in parallel
	KDF     crypto.KeyDeriver
	Logger  *slog.Logger
}

func (o *Options) applyDefaults() {
	if o.Suffix == "" {
		o.Suffix = DefaultSuffix
	}
	if o.Index == "" {
		o.Index = DefaultIndex
	}
	if o.Workers < 1 {
		o.Workers = DefaultWorkers()
	}
	if o.KDF == nil {
		o.KDF = crypto.DefaultKDF()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Workspace seals and unseals files inside one directory and keeps an
// index of the containers it produced.
type Workspace struct {
	dir       string
	indexPath string
	opts      Options
	validator *security.PathValidator
	enc       *Encryptor
	logger    *slog.Logger
}

// New creates a Workspace rooted at dir
func New(dir string, opts Options) (*Workspace, error) {
	opts.applyDefaults()

	validator, err := security.New(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize path validator: %w", err)
	}

	return &Workspace{
		dir:       validator.Root(),
		indexPath: filepath.Join(validator.Root(), opts.Index),
		opts:      opts,
		validator: validator,
		enc: NewEncryptor(
			WithKDF(opts.KDF),
			WithFileStore(validator),
			WithLogger(opts.Logger),
		),
		logger: opts.Logger,
	}, nil
}

// Close releases resources held by the Workspace
func (w *Workspace) Close() error {
	return w.validator.Close()
}

// Dir returns the absolute workspace directory
func (w *Workspace) Dir() string {
	return w.dir
}

// IndexPath returns the absolute path of the index database
func (w *Workspace) IndexPath() string {
	return w.indexPath
}

// Encryptor returns the workspace-confined encryptor
func (w *Workspace) Encryptor() *Encryptor {
	return w.enc
}

// SealedName returns the container name for a plaintext path
func (w *Workspace) SealedName(path string) string {
	return path + w.opts.Suffix
}

// UnsealedName strips the suffix from a container path
func (w *Workspace) UnsealedName(path string) (string, error) {
	if !strings.HasSuffix(path, w.opts.Suffix) || len(path) == len(w.opts.Suffix) {
		return "", fmt.Errorf("%w: %s (expected %s suffix)", ErrNotSealed, path, w.opts.Suffix)
	}
	return strings.TrimSuffix(path, w.opts.Suffix), nil
}

// openIndex opens the index, creating it when create is set
func (w *Workspace) openIndex(create bool) (*storage.Storage, error) {
	if !create {
		if _, err := os.Stat(w.indexPath); err != nil {
			return nil, ErrNotInitialized
		}
	}

	db, err := storage.Open(w.indexPath)
	if err != nil {
		return nil, err
	}
	if create {
		if err := db.Initialize(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize index: %w", err)
		}
	}
	return db, nil
}

// expand resolves glob patterns and validates every path against the
// workspace root. Directories and the index itself are dropped.
func (w *Workspace) expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	add := func(p string) error {
		rel, err := w.validator.Rel(p)
		if err != nil {
			return err
		}
		if seen[rel] || rel == filepath.ToSlash(w.opts.Index) {
			return nil
		}
		if info, err := w.validator.Stat(rel); err == nil && info.IsDir() {
			w.logger.Warn("skipping directory", "path", rel)
			return nil
		}
		seen[rel] = true
		paths = append(paths, rel)
		return nil
	}

	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[") {
			if err := add(pattern); err != nil {
				return nil, err
			}
			continue
		}

		base := pattern
		if !filepath.IsAbs(base) {
			base = filepath.Join(w.dir, pattern)
		}
		matches, err := filepath.Glob(base)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if err := add(m); err != nil {
				return nil, err
			}
		}
	}

	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	return paths, nil
}

// Seal encrypts each matched file to <file><suffix> and records it in the index.
// When remove is set the plaintext is deleted after its container is written.
func (w *Workspace) Seal(ctx context.Context, patterns []string, password []byte, remove bool) (*BatchResult, error) {
	paths, err := w.expand(patterns)
	if err != nil {
		return nil, err
	}

	db, err := w.openIndex(true)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	// The index ID is the keyring account for this workspace
	if _, err := db.GetOrCreateIndexID(); err != nil {
		return nil, fmt.Errorf("failed to create index ID: %w", err)
	}

	return runBatch(ctx, paths, w.opts.Workers, func(ctx context.Context, path string) (outcome, error) {
		if strings.HasSuffix(path, w.opts.Suffix) {
			return 0, fmt.Errorf("already sealed (has %s suffix)", w.opts.Suffix)
		}
		return outcomeDone, w.sealOne(ctx, db, path, password, remove)
	})
}

func (w *Workspace) sealOne(ctx context.Context, db *storage.Storage, path string, password []byte, remove bool) error {
	start := time.Now()

	info, err := w.validator.Stat(path)
	if err != nil {
		return newIOError("stat", path, err)
	}

	plaintext, err := w.validator.ReadFile(path)
	if err != nil {
		return newIOError("read", path, err)
	}
	size := int64(len(plaintext))

	container, err := w.enc.Encrypt(plaintext, password)
	crypto.ClearBytes(plaintext)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	out := w.SealedName(path)
	if err := w.validator.WriteFile(out, container, FilePermSecure); err != nil {
		return newIOError("write", out, err)
	}

	if err := db.Record(storage.NewEntry(out, path, size, uint32(info.Mode().Perm()), container)); err != nil {
		return fmt.Errorf("failed to update index: %w", err)
	}

	if remove {
		if err := w.validator.Remove(path); err != nil {
			return newIOError("remove", path, err)
		}
	}

	w.logger.Info("sealed", "path", path, "container", out, "size", size, "elapsed", time.Since(start))
	return nil
}

// Unseal decrypts each matched container next to itself, stripping the suffix.
// Existing targets with identical content are skipped; different content is
// handled according to strategy.
func (w *Workspace) Unseal(ctx context.Context, patterns []string, password []byte, strategy ConflictStrategy) (*BatchResult, error) {
	paths, err := w.expand(patterns)
	if err != nil {
		return nil, err
	}

	// The index is optional here; it only supplies the original file mode
	db, err := w.openIndex(false)
	if err == nil {
		defer db.Close()
	}

	return runBatch(ctx, paths, w.opts.Workers, func(ctx context.Context, path string) (outcome, error) {
		return w.unsealOne(ctx, db, path, password, strategy)
	})
}

func (w *Workspace) unsealOne(ctx context.Context, db *storage.Storage, path string, password []byte, strategy ConflictStrategy) (outcome, error) {
	out, err := w.UnsealedName(path)
	if err != nil {
		return 0, err
	}

	container, err := w.validator.ReadFile(path)
	if err != nil {
		return 0, newIOError("read", path, err)
	}

	plaintext, err := w.enc.Decrypt(container, password)
	if err != nil {
		return 0, err
	}
	defer crypto.ClearBytes(plaintext)

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	perm := os.FileMode(FilePermSecure)
	if db != nil {
		if entry, err := db.Get(path); err == nil {
			perm = secureFileMode(entry.Mode)
		}
	}

	local, err := w.validator.ReadFile(out)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No conflict
	case err != nil:
		return 0, newIOError("read", out, err)
	case bytes.Equal(local, plaintext):
		w.logger.Debug("unchanged", "path", out)
		return outcomeSkipped, nil
	default:
		switch strategy {
		case StrategyOverwrite:
		case StrategyKeepBoth:
			out = out + KeepBothExt
		default:
			w.logger.Warn("local file differs, keeping it", "path", out)
			return outcomeSkipped, nil
		}
	}

	if err := w.validator.WriteFile(out, plaintext, perm); err != nil {
		return 0, newIOError("write", out, err)
	}

	w.logger.Info("unsealed", "container", path, "path", out, "size", len(plaintext))
	return outcomeDone, nil
}

// Verify decrypts each matched container in memory and discards the result
func (w *Workspace) Verify(ctx context.Context, patterns []string, password []byte) (*BatchResult, error) {
	paths, err := w.expand(patterns)
	if err != nil {
		return nil, err
	}

	return runBatch(ctx, paths, w.opts.Workers, func(ctx context.Context, path string) (outcome, error) {
		container, err := w.validator.ReadFile(path)
		if err != nil {
			return 0, newIOError("read", path, err)
		}
		plaintext, err := w.enc.Decrypt(container, password)
		if err != nil {
			return 0, err
		}
		crypto.ClearBytes(plaintext)
		return outcomeDone, nil
	})
}

// CheckPassword decrypts the first matched container in memory.
// It lets callers reject a stale stored password before starting a batch.
func (w *Workspace) CheckPassword(patterns []string, password []byte) error {
	paths, err := w.expand(patterns)
	if err != nil {
		return err
	}

	container, err := w.validator.ReadFile(paths[0])
	if err != nil {
		return newIOError("read", paths[0], err)
	}
	plaintext, err := w.enc.Decrypt(container, password)
	if err != nil {
		return err
	}
	crypto.ClearBytes(plaintext)
	return nil
}

// Diff decrypts a container and returns a unified diff against the local
// file. local defaults to the container name without its suffix.
func (w *Workspace) Diff(ctx context.Context, containerPath, local string, password []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	containerPath, err := w.validator.Rel(containerPath)
	if err != nil {
		return "", err
	}
	if local == "" {
		if local, err = w.UnsealedName(containerPath); err != nil {
			return "", err
		}
	} else if local, err = w.validator.Rel(local); err != nil {
		return "", err
	}

	container, err := w.validator.ReadFile(containerPath)
	if err != nil {
		return "", newIOError("read", containerPath, err)
	}
	sealed, err := w.enc.Decrypt(container, password)
	if err != nil {
		return "", err
	}
	defer crypto.ClearBytes(sealed)

	localData, err := w.validator.ReadFile(local)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", newIOError("read", local, err)
	}
	defer crypto.ClearBytes(localData)

	return GenerateUnifiedDiff(local, sealed, localData)
}

// FileStatus describes one indexed container
type FileStatus struct {
	Container string
	Source    string
	Size      int64
	SealedAt  time.Time
	State     string
}

// Container states reported by Status
const (
	StateSealed   = "sealed"            // Container intact, plaintext absent
	StateExposed  = "plaintext present" // Container intact, plaintext still on disk
	StateModified = "container changed" // Container differs from what was sealed
	StateMissing  = "container missing"
	StateError    = "error"
)

// StatusInfo contains workspace status
type StatusInfo struct {
	IndexID      string
	LastModified time.Time
	Files        []FileStatus
	TotalSize    int64
	Algorithm    string
	KDF          string
	GitStatus    *git.GitStatus
}

// Status inspects every indexed container (no password required)
func (w *Workspace) Status(ctx context.Context) (*StatusInfo, error) {
	db, err := w.openIndex(false)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	lastModified, _ := db.GetModified()
	indexID, _ := db.GetIndexID()

	status := &StatusInfo{
		IndexID:      indexID,
		LastModified: lastModified,
		Files:        make([]FileStatus, 0),
		Algorithm:    "AES-256-GCM",
		KDF:          describeKDF(w.opts.KDF),
	}

	entries, err := db.List()
	if err != nil {
		return nil, err
	}

	var containers, sources []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Skip entries that would escape the workspace (tampered index)
		path, err := w.validator.ValidateExistingPath(entry.Container)
		if err != nil {
			w.logger.Warn("ignoring invalid index entry", "container", entry.Container, "error", err)
			continue
		}
		source, err := w.validator.ValidateExistingPath(entry.Source)
		if err != nil {
			w.logger.Warn("ignoring invalid index entry", "source", entry.Source, "error", err)
			continue
		}

		st := FileStatus{
			Container: path,
			Source:    source,
			Size:      entry.PlaintextSize,
			SealedAt:  entry.SealedAt,
		}
		status.TotalSize += entry.PlaintextSize
		containers = append(containers, path)
		sources = append(sources, source)

		data, err := w.validator.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			st.State = StateMissing
		case err != nil:
			st.State = StateError
		case !entry.Matches(data):
			st.State = StateModified
		default:
			st.State = StateSealed
			if _, err := w.validator.Stat(source); err == nil {
				st.State = StateExposed
			}
		}
		status.Files = append(status.Files, st)
	}

	gitStatus, err := git.CheckGitIntegration(w.dir, w.opts.Index, containers, sources)
	if err == nil && gitStatus.IsRepo {
		status.GitStatus = gitStatus
	}

	return status, nil
}

// Forget drops containers from the index without touching files
func (w *Workspace) Forget(ctx context.Context, paths []string) error {
	db, err := w.openIndex(false)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := w.validator.Rel(p)
		if err != nil {
			return err
		}
		if _, err := db.Get(rel); err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}
		if err := db.Remove(rel); err != nil {
			return err
		}
	}
	return nil
}

// Compact compacts the index database to reclaim unused space
func (w *Workspace) Compact() error {
	db, err := w.openIndex(false)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Compact()
}

// GetIndexID retrieves the index ID used as keyring account
func (w *Workspace) GetIndexID() (string, error) {
	db, err := w.openIndex(false)
	if err != nil {
		return "", err
	}
	defer db.Close()
	return db.GetIndexID()
}

// GetOrCreateIndexID retrieves the index ID, creating index and ID if needed
func (w *Workspace) GetOrCreateIndexID() (string, error) {
	db, err := w.openIndex(true)
	if err != nil {
		return "", err
	}
	defer db.Close()
	return db.GetOrCreateIndexID()
}

// secureFileMode masks a file mode to preserve execute for owner only, removes group/other.
// Returns FilePermSecure (0600) if the result would be zero.
func secureFileMode(mode uint32) os.FileMode {
	secure := os.FileMode(mode) & 0700
	if secure == 0 {
		return FilePermSecure
	}
	return secure
}

func describeKDF(kdf crypto.KeyDeriver) string {
	if a, ok := kdf.(crypto.Argon2id); ok {
		return fmt.Sprintf("Argon2id (t=%d, m=%d KiB, p=%d)", a.Time, a.Memory, a.Threads)
	}
	return fmt.Sprintf("%T", kdf)
}

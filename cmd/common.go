package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/illarion/sealfile/internal/config"
	"github.com/illarion/sealfile/internal/core"
	"github.com/illarion/sealfile/internal/crypto"
	"github.com/illarion/sealfile/internal/keyring"
	"github.com/illarion/sealfile/internal/logging"
)

var (
	settings = config.Default()
	logger   = logging.Discard()

	// readPassword prompts on the terminal; replaced in tests
	readPassword = core.ReadPassword
)

// Setup loads .sealfile.yaml and configures logging.
// verbose forces debug level regardless of the config file.
func Setup(verbose bool) {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	settings = cfg
	logger = logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

// openWorkspace opens the current directory as a workspace
func openWorkspace() *core.Workspace {
	opts := settings.WorkspaceOptions()
	opts.Logger = logger

	ws, err := core.New(".", opts)
	if err != nil {
		HandleError(err)
	}
	return ws
}

// PasswordSource records where a password came from
type PasswordSource int

const (
	SourceArgument PasswordSource = iota
	SourceEnv
	SourceKeyring
	SourcePrompt
)

// GetPassword resolves the password from, in order: the command-line
// argument, SEALFILE_PASSWORD, the OS keyring entry for indexID and an
// interactive prompt. confirm asks twice when prompting.
// The caller is responsible for calling crypto.ClearBytes on the returned password.
func GetPassword(arg, indexID string, confirm bool) ([]byte, PasswordSource, error) {
	if arg != "" {
		return []byte(arg), SourceArgument, nil
	}

	if password := core.GetPasswordFromEnv(); password != nil {
		return password, SourceEnv, nil
	}

	if settings.KeyringEnabled() && indexID != "" {
		if password, err := keyring.GetPassword(indexID); err == nil {
			logger.Debug("using password from keyring", "index_id", indexID)
			return password, SourceKeyring, nil
		}
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, SourcePrompt, fmt.Errorf("no password given and stdin is not a terminal (set %s)", core.PasswordEnv)
	}

	var password []byte
	var err error
	if confirm {
		password, err = core.ReadPasswordConfirm()
	} else {
		password, err = readPassword("Enter password: ")
	}
	if err != nil {
		return nil, SourcePrompt, err
	}
	return password, SourcePrompt, nil
}

// GetPasswordWithRetry is GetPassword with a fallback to the prompt when a
// keyring password fails check with an authentication failure. The
// re-entered password must pass check as well.
func GetPasswordWithRetry(arg, indexID string, confirm bool, check func([]byte) error) ([]byte, PasswordSource, error) {
	password, source, err := GetPassword(arg, indexID, confirm)
	if err != nil || source != SourceKeyring {
		return password, source, err
	}

	err = check(password)
	if err == nil || !errors.Is(err, crypto.ErrAuthFailed) {
		return password, source, nil
	}
	crypto.ClearBytes(password)

	fmt.Fprintln(os.Stderr, "Stored keyring password was rejected")
	password, err = readPassword("Enter password: ")
	if err != nil {
		return nil, SourcePrompt, err
	}
	if err := check(password); err != nil && errors.Is(err, crypto.ErrAuthFailed) {
		crypto.ClearBytes(password)
		return nil, SourcePrompt, err
	}
	return password, SourcePrompt, nil
}

// OfferToSavePassword asks whether to store a prompted password in the keyring
func OfferToSavePassword(ws *core.Workspace, password []byte) {
	if !settings.KeyringEnabled() || !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}

	id, err := ws.GetOrCreateIndexID()
	if err != nil {
		logger.Debug("no index ID for keyring", "error", err)
		return
	}
	if keyring.HasPassword(id) {
		return
	}

	fmt.Fprint(os.Stderr, "Save password to OS keyring? [y/N]: ")
	var response string
	fmt.Scanln(&response)
	response = strings.ToLower(strings.TrimSpace(response))
	if response != "y" && response != "yes" {
		return
	}

	if err := keyring.SavePassword(id, password); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, "Password saved to keyring")
}

// indexID returns the workspace index ID, or "" when there is no index yet
func indexID(ws *core.Workspace) string {
	id, err := ws.GetIndexID()
	if err != nil {
		return ""
	}
	return id
}

// PrintBatch reports per-file results and exits non-zero if any file failed
func PrintBatch(verb string, result *core.BatchResult) {
	printResults(verb, result)
	if !result.OK() {
		os.Exit(1)
	}
}

// HandleBatch reports whatever a batch finished before handling err.
// A cancelled batch still returns the files it completed.
func HandleBatch(verb string, result *core.BatchResult, err error) {
	if err != nil {
		if result != nil {
			printResults(verb, result)
		}
		HandleError(err)
	}
	PrintBatch(verb, result)
}

func printResults(verb string, result *core.BatchResult) {
	for _, path := range result.Done {
		fmt.Printf("%s: %s\n", verb, path)
	}
	for _, path := range result.Skipped {
		fmt.Printf("skipped: %s\n", path)
	}
	for _, f := range result.Failed {
		fmt.Fprintf(os.Stderr, "failed: %s: %s: %s\n", f.Path, core.ErrorKind(f.Err), f.Err)
	}

	fmt.Printf("\n%d %s, %d skipped, %d failed\n", len(result.Done), verb, len(result.Skipped), len(result.Failed))
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, core.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: no %s index in this directory\n", settings.Index)
		fmt.Fprintf(os.Stderr, "Run 'sealfile seal <file>' first\n")
	case errors.Is(err, core.ErrNoFiles):
		fmt.Fprintf(os.Stderr, "Error: no files matched\n")
	case errors.Is(err, crypto.ErrAuthFailed):
		fmt.Fprintf(os.Stderr, "Error: %s: wrong password or corrupted file\n", core.ErrorKind(err))
	default:
		fmt.Fprintf(os.Stderr, "Error: %s: %s\n", core.ErrorKind(err), err)
	}
	os.Exit(1)
}

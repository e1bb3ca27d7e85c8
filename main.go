package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/illarion/sealfile/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "encrypt":
		runEncrypt(ctx, os.Args[2:])
	case "decrypt":
		runDecrypt(ctx, os.Args[2:])
	case "seal":
		runSeal(ctx, os.Args[2:])
	case "unseal":
		runUnseal(ctx, os.Args[2:])
	case "verify":
		runVerify(ctx, os.Args[2:])
	case "diff":
		runDiff(ctx, os.Args[2:])
	case "status", "ls":
		runStatus(ctx, os.Args[2:])
	case "forget":
		runForget(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// newFlagSet creates a subcommand flag set with the shared --verbose flag
func newFlagSet(name string) (*pflag.FlagSet, *bool) {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	fs.Usage = func() { printCommandHelp(name) }
	verbose := fs.BoolP("verbose", "v", false, "Log debug output to stderr")
	return fs, verbose
}

func parse(fs *pflag.FlagSet, verbose *bool, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	cmd.Setup(*verbose)
}

func requireArgs(fs *pflag.FlagSet, lo, hi int) {
	if n := fs.NArg(); n < lo || (hi >= 0 && n > hi) {
		printCommandHelp(fs.Name())
		os.Exit(1)
	}
}

func runEncrypt(ctx context.Context, args []string) {
	fs, verbose := newFlagSet("encrypt")
	parse(fs, verbose, args)
	requireArgs(fs, 2, 3)

	cmd.Encrypt(ctx, fs.Arg(0), fs.Arg(1), fs.Arg(2))
}

func runDecrypt(ctx context.Context, args []string) {
	fs, verbose := newFlagSet("decrypt")
	parse(fs, verbose, args)
	requireArgs(fs, 2, 3)

	cmd.Decrypt(ctx, fs.Arg(0), fs.Arg(1), fs.Arg(2))
}

func runSeal(ctx context.Context, args []string) {
	fs, verbose := newFlagSet("seal")
	remove := fs.BoolP("remove", "r", false, "Remove original files after sealing")
	parse(fs, verbose, args)
	requireArgs(fs, 1, -1)

	cmd.Seal(ctx, fs.Args(), *remove)
}

func runUnseal(ctx context.Context, args []string) {
	fs, verbose := newFlagSet("unseal")
	force := fs.BoolP("force", "f", false, "Overwrite local files that differ")
	keepBoth := fs.Bool("keep-both", false, "Write the container's content next to differing local files")
	parse(fs, verbose, args)
	requireArgs(fs, 1, -1)

	cmd.Unseal(ctx, fs.Args(), *force, *keepBoth)
}

func runVerify(ctx context.Context, args []string) {
	fs, verbose := newFlagSet("verify")
	parse(fs, verbose, args)
	requireArgs(fs, 1, -1)

	cmd.Verify(ctx, fs.Args())
}

func runDiff(ctx context.Context, args []string) {
	fs, verbose := newFlagSet("diff")
	parse(fs, verbose, args)
	requireArgs(fs, 1, 2)

	cmd.Diff(ctx, fs.Arg(0), fs.Arg(1))
}

func runStatus(ctx context.Context, args []string) {
	fs, verbose := newFlagSet("status")
	parse(fs, verbose, args)

	cmd.Status(ctx)
}

func runForget(ctx context.Context, args []string) {
	fs, verbose := newFlagSet("forget")
	parse(fs, verbose, args)

	cmd.Forget(ctx, fs.Args())
}

func runCompact(_ context.Context, args []string) {
	fs, verbose := newFlagSet("compact")
	parse(fs, verbose, args)

	cmd.Compact()
}

func runKeyring(_ context.Context, args []string) {
	fs, verbose := newFlagSet("keyring")
	parse(fs, verbose, args)
	requireArgs(fs, 1, 1)

	switch fs.Arg(0) {
	case "save":
		cmd.KeyringSave()
	case "delete":
		cmd.KeyringDelete()
	case "status":
		cmd.KeyringStatus()
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", fs.Arg(0))
		printCommandHelp("keyring")
		os.Exit(1)
	}
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sealfile completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("sealfile - Password-based file encryption")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sealfile <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  encrypt     Encrypt one file to a container")
	fmt.Println("  decrypt     Decrypt one container to a file")
	fmt.Println("  seal        Encrypt files to <file>.sealed")
	fmt.Println("  unseal      Decrypt .sealed files next to themselves")
	fmt.Println("  verify      Check that containers decrypt, without writing")
	fmt.Println("  diff        Compare a container with the local file")
	fmt.Println("  ls, status  Show sealed files and git warnings")
	fmt.Println("  forget      Drop containers from the index")
	fmt.Println("  compact     Compact the index to reclaim disk space")
	fmt.Println("  keyring     Manage the password in the OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  sealfile encrypt notes.txt notes.enc    # Encrypt one file")
	fmt.Println("  sealfile seal .env -r                   # Seal .env and remove original")
	fmt.Println("  sealfile unseal \"*.sealed\"              # Unseal everything")
	fmt.Println("  sealfile status                         # Check what is sealed")
	fmt.Println()
	fmt.Println("Use 'sealfile help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "encrypt":
		fmt.Println("sealfile encrypt <in> <out> [password]")
		fmt.Println()
		fmt.Println("Encrypts <in> with a key derived from the password (Argon2id)")
		fmt.Println("and writes salt, nonce and AES-256-GCM ciphertext to <out>.")
		fmt.Println("Without a password argument, SEALFILE_PASSWORD is used,")
		fmt.Println("otherwise the password is prompted for twice.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  sealfile encrypt secrets.txt secrets.bin")
		fmt.Println("  SEALFILE_PASSWORD=... sealfile encrypt a.txt a.bin")
	case "decrypt":
		fmt.Println("sealfile decrypt <in> <out> [password]")
		fmt.Println()
		fmt.Println("Decrypts the container <in> and writes the plaintext to <out> (mode 0600).")
		fmt.Println("Nothing is written if the password is wrong or the file was modified.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  sealfile decrypt secrets.bin secrets.txt")
	case "seal":
		fmt.Println("sealfile seal [-r|--remove] <file> [file...]")
		fmt.Println()
		fmt.Println("Encrypts each file to <file>.sealed and records it in the .sealfile index.")
		fmt.Println("Files are processed in parallel. Supports glob patterns.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -r, --remove    Remove original files after sealing")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  sealfile seal .env")
		fmt.Println("  sealfile seal -r \"config/*.secret\"")
	case "unseal":
		fmt.Println("sealfile unseal [-f|--force|--keep-both] <file.sealed> [file...]")
		fmt.Println()
		fmt.Println("Decrypts each container next to itself, stripping the .sealed suffix.")
		fmt.Println("Local files with identical content are skipped. Local files that differ")
		fmt.Println("are kept unless a flag says otherwise.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -f, --force     Overwrite local files that differ")
		fmt.Println("  --keep-both     Write the container's content to <file>.from-container")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  sealfile unseal .env.sealed")
		fmt.Println("  sealfile unseal --force \"*.sealed\"")
	case "verify":
		fmt.Println("sealfile verify <file.sealed> [file...]")
		fmt.Println()
		fmt.Println("Decrypts each container in memory and reports whether it authenticates.")
		fmt.Println("No plaintext is written. Exits non-zero if any container fails.")
	case "diff":
		fmt.Println("sealfile diff <file.sealed> [file]")
		fmt.Println()
		fmt.Println("Shows a unified diff between the container's content and the local file")
		fmt.Println("(default: the container name without .sealed).")
	case "status", "ls":
		fmt.Println("sealfile status")
		fmt.Println()
		fmt.Println("Shows the sealed files recorded in the index:")
		fmt.Println("  - Encryption details")
		fmt.Println("  - Whether each container is intact and its plaintext removed")
		fmt.Println("  - Git warnings for plaintext that is tracked or not ignored")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "forget":
		fmt.Println("sealfile forget <file.sealed> [file...]")
		fmt.Println()
		fmt.Println("Removes containers from the index. The files themselves are not touched.")
	case "compact":
		fmt.Println("sealfile compact")
		fmt.Println()
		fmt.Println("Compacts the .sealfile index to reclaim unused disk space.")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "keyring":
		fmt.Println("sealfile keyring <save|delete|status>")
		fmt.Println()
		fmt.Println("Manages the password stored in the OS keyring for this directory's index.")
		fmt.Println("A stored password is used when SEALFILE_PASSWORD is not set.")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  save      Prompt for the password and store it")
		fmt.Println("  delete    Remove the stored password")
		fmt.Println("  status    Show whether a password is stored")
	case "completion":
		fmt.Println("sealfile completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(sealfile completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(sealfile completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  sealfile completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}

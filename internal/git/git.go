package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// GitStatus contains git hygiene information for sealed files
type GitStatus struct {
	IsRepo              bool
	IndexTracked        bool
	TrackedPlaintext    []string // Plaintext sources tracked by git (bad)
	UnignoredPlaintext  []string // Plaintext sources not in .gitignore (warning)
	UntrackedContainers []string // Containers not committed yet (informational)
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	// git check-ignore exits 0 when the path is ignored
	return cmd.Run() == nil
}

// CheckGitIntegration reports whether plaintext sources leak into git and
// whether containers and the index are committed.
func CheckGitIntegration(workDir, indexFile string, containers, sources []string) (*GitStatus, error) {
	status := &GitStatus{}

	if !IsGitRepo(workDir) {
		return status, nil
	}
	status.IsRepo = true
	status.IndexTracked = IsTracked(workDir, indexFile)

	for _, file := range sources {
		if IsTracked(workDir, file) {
			status.TrackedPlaintext = append(status.TrackedPlaintext, file)
		} else if !IsIgnored(workDir, file) {
			status.UnignoredPlaintext = append(status.UnignoredPlaintext, file)
		}
	}

	for _, file := range containers {
		if !IsTracked(workDir, file) {
			status.UntrackedContainers = append(status.UntrackedContainers, file)
		}
	}

	return status, nil
}

// FormatGitStatus formats git status for display
func FormatGitStatus(status *GitStatus, indexFile string) string {
	if status == nil || !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit Integration:\n")

	if status.IndexTracked {
		result.WriteString(fmt.Sprintf("   ok: %s is tracked by git\n", indexFile))
	} else {
		result.WriteString(fmt.Sprintf("   note: %s not tracked (optional: git add %s)\n", indexFile, indexFile))
	}

	if len(status.TrackedPlaintext) > 0 {
		result.WriteString(fmt.Sprintf("   error: %d plaintext file(s) tracked by git:\n", len(status.TrackedPlaintext)))
		for _, file := range status.TrackedPlaintext {
			result.WriteString(fmt.Sprintf("      - %s (run: git rm --cached %s)\n", file, file))
		}
	}

	for _, file := range status.UnignoredPlaintext {
		result.WriteString(fmt.Sprintf("   warning: %s not in .gitignore\n", file))
	}

	if len(status.UntrackedContainers) > 0 {
		result.WriteString(fmt.Sprintf("   note: %d container(s) not committed:\n", len(status.UntrackedContainers)))
		for _, file := range status.UntrackedContainers {
			result.WriteString(fmt.Sprintf("      - %s\n", file))
		}
	}

	if len(status.TrackedPlaintext) == 0 && len(status.UnignoredPlaintext) == 0 {
		result.WriteString("   ok: no plaintext exposed to git\n")
	}

	return result.String()
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/illarion/sealfile/internal/core"
	"github.com/illarion/sealfile/internal/git"
)

// Status shows indexed containers and git hygiene warnings (no password required)
func Status(ctx context.Context) {
	ws := openWorkspace()
	defer ws.Close()

	status, err := ws.Status(ctx)
	if errors.Is(err, core.ErrNotInitialized) {
		fmt.Printf("No %s index found in current directory\n", settings.Index)
		fmt.Println("Run 'sealfile seal <file>' to create one")
		return
	}
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Index:      %s\n", settings.Index)
	if status.IndexID != "" {
		fmt.Printf("Index ID:   %s\n", status.IndexID)
	}
	if !status.LastModified.IsZero() {
		fmt.Printf("Modified:   %s\n", status.LastModified.Format(time.RFC3339))
	}
	fmt.Printf("Encryption: %s, %s\n", status.Algorithm, status.KDF)
	fmt.Printf("Files:      %d (%s plaintext)\n", len(status.Files), formatSize(status.TotalSize))

	fmt.Println()
	if len(status.Files) == 0 {
		fmt.Println("  (no sealed files)")
	}
	for _, f := range status.Files {
		fmt.Printf("  %s %s <- %s (%s, %s)\n",
			stateIcon(f.State), f.Container, f.Source, formatSize(f.Size), f.State)
	}

	if status.GitStatus != nil {
		fmt.Println()
		fmt.Print(git.FormatGitStatus(status.GitStatus, settings.Index))
	}
}

func stateIcon(state string) string {
	switch state {
	case core.StateSealed:
		return "*"
	case core.StateExposed:
		return "!"
	case core.StateModified, core.StateMissing, core.StateError:
		return "x"
	default:
		return " "
	}
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}

package cmd

import (
	"context"
	"fmt"
	"os"
)

// Forget drops containers from the index, leaving the files in place
func Forget(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "Error: forget requires at least one container argument\n")
		fmt.Fprintf(os.Stderr, "Usage: sealfile forget <container> [container...]\n")
		os.Exit(1)
	}

	ws := openWorkspace()
	defer ws.Close()

	if err := ws.Forget(ctx, paths); err != nil {
		HandleError(err)
	}
	for _, p := range paths {
		fmt.Printf("forgotten: %s\n", p)
	}
}

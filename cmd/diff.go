package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/sealfile/internal/crypto"
)

// Diff compares a container's content with a local file
func Diff(ctx context.Context, container, local string) {
	ws := openWorkspace()
	defer ws.Close()

	password, _, err := GetPassword("", indexID(ws), false)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	out, err := ws.Diff(ctx, container, local, password)
	if err != nil {
		HandleError(err)
	}

	if out == "" {
		fmt.Println("No differences")
		return
	}
	fmt.Print(out)
}

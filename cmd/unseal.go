package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/sealfile/internal/core"
	"github.com/illarion/sealfile/internal/crypto"
)

// Unseal decrypts containers next to themselves
func Unseal(ctx context.Context, patterns []string, force, keepBoth bool) {
	if force && keepBoth {
		fmt.Fprintf(os.Stderr, "Error: --force and --keep-both are mutually exclusive\n")
		os.Exit(1)
	}

	ws := openWorkspace()
	defer ws.Close()

	id := indexID(ws)
	password, source, err := GetPasswordWithRetry("", id, false, func(pw []byte) error {
		return ws.CheckPassword(patterns, pw)
	})
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	strategy := core.StrategyKeepLocal
	switch {
	case force:
		strategy = core.StrategyOverwrite
	case keepBoth:
		strategy = core.StrategyKeepBoth
	}

	result, err := ws.Unseal(ctx, patterns, password, strategy)
	if err == nil && source == SourcePrompt && len(result.Done) > 0 {
		OfferToSavePassword(ws, password)
	}
	HandleBatch("unsealed", result, err)
}

// Verify authenticates containers without writing plaintext
func Verify(ctx context.Context, patterns []string) {
	ws := openWorkspace()
	defer ws.Close()

	password, _, err := GetPassword("", indexID(ws), false)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	result, err := ws.Verify(ctx, patterns, password)
	HandleBatch("ok", result, err)
}

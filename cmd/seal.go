package cmd

import (
	"context"
	"errors"

	"github.com/illarion/sealfile/internal/core"
	"github.com/illarion/sealfile/internal/crypto"
)

// Seal encrypts files to <file><suffix> and records them in the index
func Seal(ctx context.Context, patterns []string, remove bool) {
	ws := openWorkspace()
	defer ws.Close()

	// Prompting for a new seal asks twice; a typo would lock the file away
	password, source, err := GetPasswordWithRetry("", indexID(ws), true, sealPasswordCheck(ws))
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	result, err := ws.Seal(ctx, patterns, password, remove)
	if err == nil && source == SourcePrompt && len(result.Done) > 0 {
		OfferToSavePassword(ws, password)
	}
	HandleBatch("sealed", result, err)
}

// sealPasswordCheck makes new files share the password of the containers
// already in the workspace. An empty workspace accepts any password.
func sealPasswordCheck(ws *core.Workspace) func([]byte) error {
	return func(pw []byte) error {
		err := ws.CheckPassword([]string{"*" + settings.Suffix}, pw)
		if errors.Is(err, core.ErrNoFiles) {
			return nil
		}
		return err
	}
}

package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/sealfile/internal/core"
	"github.com/illarion/sealfile/internal/crypto"
)

// Encrypt writes a sealed container for a single file.
// Paths are not confined to the working directory.
func Encrypt(ctx context.Context, in, out, passwordArg string) {
	password, _, err := GetPassword(passwordArg, "", true)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	enc := core.NewEncryptor(core.WithLogger(logger))
	if err := enc.EncryptFile(ctx, in, out, password); err != nil {
		HandleError(err)
	}

	fmt.Printf("encrypted: %s -> %s\n", in, out)
}

// Decrypt restores a single file from its container.
// Nothing is written unless the container authenticates.
func Decrypt(ctx context.Context, in, out, passwordArg string) {
	password, _, err := GetPassword(passwordArg, "", false)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	enc := core.NewEncryptor(core.WithLogger(logger))
	if err := enc.DecryptFile(ctx, in, out, password); err != nil {
		HandleError(err)
	}

	fmt.Printf("decrypted: %s -> %s\n", in, out)
}

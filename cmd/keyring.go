package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/sealfile/internal/core"
	"github.com/illarion/sealfile/internal/crypto"
	"github.com/illarion/sealfile/internal/keyring"
)

// KeyringSave saves the password to the OS keyring.
// When sealed files exist the password is checked against one of them first.
func KeyringSave() {
	ws := openWorkspace()
	defer ws.Close()

	password, err := readPassword("Enter password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	if err := ws.CheckPassword([]string{"*" + settings.Suffix}, password); err != nil && !errors.Is(err, core.ErrNoFiles) {
		HandleError(err)
	}

	id, err := ws.GetOrCreateIndexID()
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassword(id, password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the password from the OS keyring
func KeyringDelete() {
	ws := openWorkspace()
	defer ws.Close()

	id := indexID(ws)
	if id == "" {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.DeletePassword(id); err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a password is stored in the keyring
func KeyringStatus() {
	ws := openWorkspace()
	defer ws.Close()

	id := indexID(ws)
	if id != "" && keyring.HasPassword(id) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/illarion/sealfile/internal/core"
)

// Compact compacts the index database to reclaim unused space
func Compact() {
	ws := openWorkspace()
	defer ws.Close()

	info, err := os.Stat(ws.IndexPath())
	if errors.Is(err, fs.ErrNotExist) {
		HandleError(core.ErrNotInitialized)
	} else if err != nil {
		HandleError(err)
	}
	sizeBefore := info.Size()

	if err := ws.Compact(); err != nil {
		HandleError(err)
	}

	info, err = os.Stat(ws.IndexPath())
	if err != nil {
		HandleError(err)
	}
	sizeAfter := info.Size()

	fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(sizeAfter))
}

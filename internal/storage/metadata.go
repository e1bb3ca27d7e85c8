package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Entry describes one sealed container. It carries no secret material:
// the hash is over the container bytes, never the plaintext.
type Entry struct {
	Container     string    `json:"container"`
	Source        string    `json:"source"`
	PlaintextSize int64     `json:"plaintextSize"`
	ContainerSize int64     `json:"containerSize"`
	ContainerHash string    `json:"containerHash"`
	Mode          uint32    `json:"mode"`
	SealedAt      time.Time `json:"sealedAt"`
}

// NewEntry builds an index entry for a freshly written container
func NewEntry(container, source string, plaintextSize int64, mode uint32, data []byte) Entry {
	return Entry{
		Container:     container,
		Source:        source,
		PlaintextSize: plaintextSize,
		ContainerSize: int64(len(data)),
		ContainerHash: HashContainer(data),
		Mode:          mode,
		SealedAt:      time.Now(),
	}
}

// HashContainer returns the hex SHA-256 of container bytes
func HashContainer(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Matches reports whether data is the container this entry was recorded for
func (e *Entry) Matches(data []byte) bool {
	return int64(len(data)) == e.ContainerSize && HashContainer(data) == e.ContainerHash
}

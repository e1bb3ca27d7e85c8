package security

import "os"

// OSFiles reads and writes arbitrary paths with no confinement.
// It backs commands where the user names both input and output explicitly.
type OSFiles struct{}

func (OSFiles) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFiles) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (OSFiles) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (OSFiles) Remove(path string) error {
	return os.Remove(path)
}

// Package keystore stores CLI API keys encrypted at rest.
package keystore

import (
	"os"
	"path/filepath"
)

// Keystore is the storage backend for named API keys.
type Keystore interface {
	// Set stores value under name, replacing any existing entry.
	Set(name, value string) error
	// Get returns the value stored under name, or *ErrKeyNotFound.
	Get(name string) (string, error)
	// Delete removes the entry for name, or returns *ErrKeyNotFound.
	Delete(name string) error
	// List returns the stored names in sorted order.
	List() ([]string, error)
}

// ErrKeyNotFound reports a lookup for a name with no stored key.
type ErrKeyNotFound struct {
	Name string
}

func (e *ErrKeyNotFound) Error() string {
	return "key not found: " + e.Name
}

// DefaultKeystorePath returns keys.enc in the .plume directory under
// the user's home, or a relative keys.enc when the home directory
// cannot be determined.
func DefaultKeystorePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "keys.enc"
	}
	return filepath.Join(homeDir, ".plume", "keys.enc")
}

// NewKeystore opens the encrypted file keystore at the default path.
func NewKeystore() (Keystore, error) {
	return NewFileKeystore(DefaultKeystorePath())
}

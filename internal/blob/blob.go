// Package blob stores item images and issues time-limited read URLs for them.
package blob

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a blob key has no stored object.
var ErrNotFound = errors.New("blob not found")

// keyBytes is the number of random bytes behind every blob key.
const keyBytes = 32

// NewKey generates a random 64-character hex key. Keys never derive from user filenames.
func NewKey() (string, error) {
	b := make([]byte, keyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate blob key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ValidKey reports whether s looks like a key produced by NewKey.
func ValidKey(s string) bool {
	if len(s) != keyBytes*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

package quiren

import (
	"math/rand"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	tempPrefix      = ".quiren-"
	tempNameLength  = 8
	tempMaxAttempts = 20
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// tempName generates a directory-local name that collides with no
// existing or planned name: the reserved prefix plus a random suffix,
// checked against the taken set.
func tempName(taken map[string]struct{}) (string, error) {
	for i := 0; i < tempMaxAttempts; i++ {
		name := tempPrefix + randAlnum(tempNameLength)
		if _, ok := taken[name]; !ok {
			return name, nil
		}
	}
	return "", New(ErrTempName, "could not allocate a temporary name")
}

func randAlnum(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumeric[rand.Intn(len(alphanumeric))]
	}
	return string(b)
}

// TrashRoot is the per-user directory deleted files are moved into
// when --trash is set.
func TrashRoot() string {
	return filepath.Join(xdg.DataHome, "quiren", "trash")
}

// trashFile moves path into trashDir instead of unlinking it, creating
// the directory on first use. An occupied destination gets a random
// suffix rather than being overwritten.
func trashFile(path, trashDir string) error {
	if err := os.MkdirAll(trashDir, 0755); err != nil {
		return err
	}
	dest := filepath.Join(trashDir, filepath.Base(path))
	if _, err := os.Lstat(dest); err == nil {
		dest += "." + randAlnum(tempNameLength)
	}
	return os.Rename(path, dest)
}

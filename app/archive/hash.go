package archive

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/minio/highwayhash"
)

// archiveHashKey is the hardcoded key used for archive hashing, so the same
// archive always produces the same identity regardless of where it lives.
var archiveHashKey = []byte("waveline hash key\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")

// HashFile calculates a HighwayHash of the archive file content.
func HashFile(path string) (string, error) {
	return HashFileWithKey(path, archiveHashKey)
}

// HashFileWithKey calculates a HighwayHash of the file content using the
// provided 32-byte key.
func HashFileWithKey(path string, key []byte) (string, error) {
	if len(key) != 32 {
		return "", fmt.Errorf("hash key must be exactly 32 bytes, got %d", len(key))
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hash, err := highwayhash.New(key)
	if err != nil {
		return "", fmt.Errorf("failed to create hash: %w", err)
	}
	if _, err := io.Copy(hash, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// FileHash returns the sha256 of a file's contents, used to skip duplicate
// photos within a single batch run.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func GetDefaultOutputDir() string {
	tmpDir, err := os.MkdirTemp("", "cardsnap-output-*")
	if err != nil {
		// If we can't create a temp directory, fall back to local directory
		return "cardsnap-pages"
	}
	return tmpDir
}

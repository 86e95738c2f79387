package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// HashBytes returns the xxhash64 of data as hex string
func HashBytes(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// HashReader consumes r and returns the xxhash64 of its content as hex string
func HashReader(r io.Reader) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// HashFile returns the content fingerprint of the file at path.
// Files with the same content have the same fingerprint regardless of name.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return HashReader(f)
}

package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestHash(t *testing.T) {
	data := []byte("some telemetry bytes")
	fromBytes := HashBytes(data)
	fromReader, err := HashReader(bytes.NewReader(data))
	assert.NilError(t, err)
	assert.Equal(t, fromBytes, fromReader)
	assert.Equal(t, len(fromBytes), 16)

	path := filepath.Join(t.TempDir(), "file.blap")
	assert.NilError(t, os.WriteFile(path, data, 0o600))
	fromFile, err := HashFile(path)
	assert.NilError(t, err)
	assert.Equal(t, fromBytes, fromFile)

	assert.Assert(t, HashBytes([]byte("other")) != fromBytes)
}

func TestHashFileMissing(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "missing.ibt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

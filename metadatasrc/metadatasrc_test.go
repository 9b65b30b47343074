package metadatasrc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenReturnsMappedBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello metadata"), 0o644))

	mf, err := Open(path)
	require.NoError(t, err)
	defer mf.Close()

	assert.Equal(t, "hello metadata", string(mf.Bytes()))
}

func TestOpenEmptyFileYieldsEmptyBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	mf, err := Open(path)
	require.NoError(t, err)
	defer mf.Close()

	assert.Empty(t, mf.Bytes())
}

func TestOpenMissingFileErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

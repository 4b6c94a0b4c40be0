package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.wnx")
	require.NoError(t, os.WriteFile(path, []byte("WNWX-sketch"), 0o644))

	data, release, err := OpenReadOnly(path)
	require.NoError(t, err)
	assert.Equal(t, "WNWX-sketch", string(data))

	require.NoError(t, release())
	require.NoError(t, release())
}

func TestOpenReadOnly_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wnx")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	data, release, err := OpenReadOnly(path)
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.NoError(t, release())
}

func TestOpenReadOnly_Missing(t *testing.T) {
	_, _, err := OpenReadOnly(filepath.Join(t.TempDir(), "missing.wnx"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

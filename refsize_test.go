package winnow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceSize(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fa")
	b := filepath.Join(dir, "b.fa.gz")
	require.NoError(t, os.WriteFile(a, make([]byte, 123), 0o644))
	require.NoError(t, os.WriteFile(b, make([]byte, 4567), 0o644))

	total, err := ReferenceSize([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, uint64(4690), total)

	total, err = ReferenceSize(nil)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestReferenceSize_Missing(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fa")
	require.NoError(t, os.WriteFile(a, []byte(">x\nACGT\n"), 0o644))
	missing := filepath.Join(dir, "missing.fa")

	_, err := ReferenceSize([]string{a, missing})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReferenceUnreadable)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, missing, refErr.Path)
}

func TestReferenceSize_Directory(t *testing.T) {
	dir := t.TempDir()

	_, err := ReferenceSize([]string{dir})
	assert.ErrorIs(t, err, ErrReferenceUnreadable)
	assert.ErrorIs(t, err, ErrIsDirectory)
}

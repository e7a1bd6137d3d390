package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewOsFs()
	path := filepath.Join(dir, "nested", "locations.json")

	require.NoError(t, WriteFileAtomic(fs, path, []byte("first")))
	require.NoError(t, WriteFileAtomic(fs, path, []byte("second")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteFileAtomic_FailureKeepsOriginal(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/data/locations.json", []byte("original"), 0o644))

	err := WriteFileAtomic(afero.NewReadOnlyFs(base), "/data/locations.json", []byte("replacement"))
	require.Error(t, err)

	got, err := afero.ReadFile(base, "/data/locations.json")
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
}

package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMappedArray_AppendAndTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layer=0")
	arr, err := CreateMappedArray(path, 2)
	require.NoError(t, err)
	defer arr.Unlink()

	for i := Word(0); i < 10; i++ {
		require.NoError(t, arr.Append(i))
	}
	require.Equal(t, 10, arr.Size())
	for i := 0; i < 10; i++ {
		require.Equal(t, Word(i), arr.Get(i))
	}

	require.NoError(t, arr.Truncate(5))
	require.Equal(t, 5, arr.Size())
	require.Equal(t, 5, arr.Cap())
}

func TestMappedArray_RenamePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "tmp")
	newPath := filepath.Join(dir, "layer=0")

	arr, err := CreateMappedArray(oldPath, 4)
	require.NoError(t, err)
	require.NoError(t, arr.Append(7))
	require.NoError(t, arr.Append(8))
	require.NoError(t, arr.Truncate(2))
	require.NoError(t, arr.Rename(newPath))
	require.NoError(t, arr.Close())

	reopened, err := OpenMappedArray(newPath, 2)
	require.NoError(t, err)
	defer reopened.Unlink()
	require.Equal(t, Word(7), reopened.Get(0))
	require.Equal(t, Word(8), reopened.Get(1))
}

func TestMappedArray_UnlinkRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layer=0")
	arr, err := CreateMappedArray(path, 1)
	require.NoError(t, err)
	require.NoError(t, arr.Unlink())

	_, err = OpenMappedArray(path, 1)
	require.Error(t, err)
}

package ldfa

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ldfagames/solver/shape"
)

func TestSaveLoad_RoundTripsContainsAndHash(t *testing.T) {
	d := buildParity(t, 4)
	wantHash := d.Hash()

	dir := t.TempDir()
	require.NoError(t, d.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	defer loaded.Close()

	require.Equal(t, wantHash, loaded.Hash())
	require.True(t, loaded.Contains([]int{1, 1, 0, 0}))
	require.False(t, loaded.Contains([]int{1, 0, 0, 0}))
	require.True(t, loaded.Shape().Equal(shape.Shape{2, 2, 2, 2}))
}

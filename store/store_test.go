package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ldfagames/solver/ldfa"
	"github.com/ldfagames/solver/shape"
)

func buildParity(t *testing.T, dim int) *ldfa.LDFA {
	t.Helper()
	s := make(shape.Shape, dim)
	for i := range s {
		s[i] = 2
	}
	b, err := ldfa.NewBuilder(s, t.TempDir())
	require.NoError(t, err)
	next := [2]ldfa.StateID{ldfa.Accept, ldfa.Reject}
	for k := dim - 1; k >= 0; k-- {
		cur := [2]ldfa.StateID{}
		for parity := 0; parity < 2; parity++ {
			id, err := b.AddState(k, []ldfa.StateID{next[parity], next[1-parity]})
			require.NoError(t, err)
			cur[parity] = id
		}
		next = cur
	}
	d, err := b.Finalize(next[0])
	require.NoError(t, err)
	return d
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	d := buildParity(t, 3)
	require.NoError(t, st.Save("parity", d))

	loaded, err := st.Load("parity")
	require.NoError(t, err)
	require.Equal(t, d.Hash(), loaded.Hash())
}

func TestStore_LoadMissingNameIsCacheMiss(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Load("nonexistent")
	require.True(t, errors.Is(err, ErrCacheMiss))
}

func TestStore_LoadOrBuildBuildsOnceThenLoads(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	calls := 0
	build := func() (*ldfa.LDFA, error) {
		calls++
		return buildParity(t, 2), nil
	}

	first, err := st.LoadOrBuild("x", build)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	second, err := st.LoadOrBuild("x", build)
	require.NoError(t, err)
	require.Equal(t, 1, calls, "second call should load from cache, not rebuild")
	require.Equal(t, first.Hash(), second.Hash())
}

func TestStore_SaveOverwritesAliasToNewHash(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	a := buildParity(t, 2)
	b := buildParity(t, 4)
	require.NoError(t, st.Save("name", a))
	require.NoError(t, st.Save("name", b))

	loaded, err := st.Load("name")
	require.NoError(t, err)
	require.Equal(t, b.Hash(), loaded.Hash())
}

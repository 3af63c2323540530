package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_UnknownPathIsChanged(t *testing.T) {
	s := openStore(t)

	unchanged, err := s.Unchanged("content/about.md", "abc")
	require.NoError(t, err)
	assert.False(t, unchanged)
}

func TestStore_RecordThenUnchanged(t *testing.T) {
	s := openStore(t)
	fp := Fingerprint([]byte("body"), "cfg1")

	require.NoError(t, s.Record("content/about.md", fp, "about/index.html"))

	unchanged, err := s.Unchanged("content/about.md", fp)
	require.NoError(t, err)
	assert.True(t, unchanged)
}

func TestStore_FingerprintChangesWithConfig(t *testing.T) {
	assert.NotEqual(t,
		Fingerprint([]byte("body"), "cfg1"),
		Fingerprint([]byte("body"), "cfg2"))
	assert.Equal(t,
		Fingerprint([]byte("body"), "cfg1"),
		Fingerprint([]byte("body"), "cfg1"))
}

func TestStore_RecordOverwrites(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Record("a.md", "old", "a/index.html"))
	require.NoError(t, s.Record("a.md", "new", "a/index.html"))

	unchanged, err := s.Unchanged("a.md", "new")
	require.NoError(t, err)
	assert.True(t, unchanged)

	unchanged, err = s.Unchanged("a.md", "old")
	require.NoError(t, err)
	assert.False(t, unchanged)
}

func TestStore_PruneRemovesStaleEntries(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Record("keep.md", "fp", "keep/index.html"))
	require.NoError(t, s.Record("gone.md", "fp", "gone/index.html"))

	require.NoError(t, s.Prune(map[string]struct{}{"keep.md": {}}))

	unchanged, err := s.Unchanged("keep.md", "fp")
	require.NoError(t, err)
	assert.True(t, unchanged)

	unchanged, err = s.Unchanged("gone.md", "fp")
	require.NoError(t, err)
	assert.False(t, unchanged)
}

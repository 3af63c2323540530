package preview

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksosa/sitegen/internal/config"
)

func TestBuildStatus_ErrorAfterSuccess_KeepsGoodBuild(t *testing.T) {
	status := &buildStatus{}

	err, good := status.snapshot()
	require.NoError(t, err)
	assert.False(t, good)

	status.setSuccess()
	status.setError(errors.New("template exploded"))

	err, good = status.snapshot()
	assert.Error(t, err)
	assert.True(t, good, "a failed rebuild must not discard the last good build")
}

func TestNewSourceWatcher_WatchesNestedContentDirs(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "content", "posts")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "layouts"), 0o755))

	cfg := &config.Config{}
	cfg.Dirs.Content = filepath.Join(dir, "content")
	cfg.Dirs.Layouts = filepath.Join(dir, "layouts")
	cfg.Dirs.Data = filepath.Join(dir, "data")     // absent, skipped
	cfg.Dirs.Static = filepath.Join(dir, "static") // absent, skipped

	watcher, err := newSourceWatcher(cfg)
	require.NoError(t, err)
	defer func() { _ = watcher.Close() }()

	assert.Contains(t, watcher.WatchList(), nested)
	assert.Contains(t, watcher.WatchList(), cfg.Dirs.Layouts)
}

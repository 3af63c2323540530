package sitedata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksosa/sitegen/internal/errors"
)

func TestLoad_ReadsYAMLFilesKeyedByBasename(t *testing.T) {
	dir := t.TempDir()
	timeline := "- title: First job\n  range: 2010-2014\n- title: Second job\n  range: 2014-2018\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "timeline.yml"), []byte(timeline), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skills.yaml"), []byte("- Go\n- SQL\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	data, err := Load(dir)
	require.NoError(t, err)

	require.Contains(t, data, "timeline")
	require.Contains(t, data, "skills")
	assert.NotContains(t, data, "notes")

	entries, ok := data["timeline"].([]any)
	require.True(t, ok)
	assert.Len(t, entries, 2)
}

func TestLoad_MissingDirectory_ReturnsEmptyMap(t *testing.T) {
	data, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.NotNil(t, data)
}

func TestLoad_MalformedDataFile_Fatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yml"), []byte("key: [unclosed\n"), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryContent))
}

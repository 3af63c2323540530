package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksosa/sitegen/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MinimalConfig_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "title: My Site\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "My Site", cfg.Title)
	assert.Equal(t, DefaultContentDir, cfg.Dirs.Content)
	assert.Equal(t, DefaultLayoutsDir, cfg.Dirs.Layouts)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	assert.True(t, cfg.Output.Clean)

	posts, ok := cfg.Collections["posts"]
	require.True(t, ok, "built-in posts collection expected")
	assert.Equal(t, "date", posts.SortBy)
	assert.Equal(t, "desc", posts.SortOrder)

	projects, ok := cfg.Collections["projects"]
	require.True(t, ok, "built-in projects collection expected")
	assert.Equal(t, "/projects/:name/", projects.Permalink)
}

func TestLoad_MissingFile_ReturnsConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestLoad_MissingTitle_ReturnsConfigError(t *testing.T) {
	path := writeConfig(t, "description: no title here\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestLoad_MalformedYAML_ReturnsConfigError(t *testing.T) {
	path := writeConfig(t, "title: [unclosed\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestLoad_CollectionPermalinkMustStartWithSlash(t *testing.T) {
	path := writeConfig(t, `
title: My Site
collections:
  talks:
    permalink: "talks/:name/"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestLoad_InvalidSortBy_ReturnsConfigError(t *testing.T) {
	path := writeConfig(t, `
title: My Site
collections:
  talks:
    permalink: "/talks/:name/"
    sort_by: popularity
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("SITE_BASE_URL", "https://jacksosa.github.io")
	path := writeConfig(t, "title: My Site\nbase_url: ${SITE_BASE_URL}/\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	// Trailing slash is trimmed so templates can join paths predictably.
	assert.Equal(t, "https://jacksosa.github.io", cfg.BaseURL)
}

func TestLoad_DeclaredCollectionsKeepTheirSettings(t *testing.T) {
	path := writeConfig(t, `
title: My Site
collections:
  posts:
    permalink: "/posts/:slug/"
    sort_by: date
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/posts/:slug/", cfg.Collections["posts"].Permalink)
	assert.Equal(t, "desc", cfg.Collections["posts"].SortOrder, "date sort defaults to desc")
}

func TestLoad_AnalyticsProviderWithoutID_ReturnsConfigError(t *testing.T) {
	path := writeConfig(t, `
title: My Site
analytics:
  provider: goatcounter
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestInit_WritesExampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")

	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Title)
	assert.Contains(t, cfg.Collections, "projects")
}

func TestInit_ExistingFileWithoutForce_Fails(t *testing.T) {
	path := writeConfig(t, "title: keep me\n")

	err := Init(path, false)
	require.Error(t, err)

	require.NoError(t, Init(path, true))
}

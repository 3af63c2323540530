package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksosa/sitegen/internal/config"
)

// fixtureSite writes a small but complete site source tree and returns its
// loaded configuration rooted in a temp dir.
func fixtureSite(t *testing.T, extraConfig string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	write := func(rel, body string) {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}

	write("site.yaml", `title: Fixture Site
description: A test fixture
base_url: https://example.com
`+extraConfig)

	write("content/index.md", "---\ntitle: Home\n---\n# Welcome\n")
	write("content/about.md", "---\ntitle: About\n---\nAbout me.\n")
	write("content/posts/2016-02-19-hello.md", "---\ntitle: Hello\n---\nFirst post.\n")
	write("content/posts/2017-06-01-again.md", "---\ntitle: Again\n---\nSecond post.\n")
	write("content/projects/demo.md", "---\nname: demo\ntitle: Demo\ntools: [go]\n---\nA demo project.\n")
	write("content/img/photo.jpg", "binary-ish")

	write("layouts/default.html", "<main>{{.Content}}</main>")
	write("layouts/post.html", "<article>{{.Content}}</article>")
	write("layouts/project.html", "<section>{{.Content}}</section>")

	write("static/css/main.css", "body{}")
	write("data/skills.yml", "- Go\n- SQL\n")

	cfg, err := config.Load(filepath.Join(dir, "site.yaml"))
	require.NoError(t, err)
	cfg.Dirs.Content = filepath.Join(dir, "content")
	cfg.Dirs.Layouts = filepath.Join(dir, "layouts")
	cfg.Dirs.Static = filepath.Join(dir, "static")
	cfg.Dirs.Data = filepath.Join(dir, "data")
	cfg.Output.Directory = filepath.Join(dir, "public")
	return cfg
}

func readOutput(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Output.Directory, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestRun_FullBuild_ProducesExpectedTree(t *testing.T) {
	cfg := fixtureSite(t, "")

	report, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, 5, report.Pages)
	assert.Equal(t, 5, report.RenderedPages)
	assert.Equal(t, 2, report.Collections["posts"])
	assert.Equal(t, 1, report.Collections["projects"])
	assert.Equal(t, 1, report.Assets)

	assert.Contains(t, readOutput(t, cfg, "index.html"), "<main>")
	assert.Contains(t, readOutput(t, cfg, "about/index.html"), "About me.")
	assert.Contains(t, readOutput(t, cfg, "blog/2016/02/19/hello/index.html"), "<article>")
	assert.Contains(t, readOutput(t, cfg, "projects/demo/index.html"), "<section>")
	assert.Equal(t, "body{}", readOutput(t, cfg, "css/main.css"))
	assert.Equal(t, "binary-ish", readOutput(t, cfg, "img/photo.jpg"))

	_, err = os.Stat(filepath.Join(cfg.Output.Directory, "build-report.json"))
	require.NoError(t, err)
}

func TestRun_Idempotent_ByteIdenticalPages(t *testing.T) {
	cfg := fixtureSite(t, "")

	_, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
	first := map[string]string{
		"index.html":       readOutput(t, cfg, "index.html"),
		"about/index.html": readOutput(t, cfg, "about/index.html"),
		"sitemap.xml":      readOutput(t, cfg, "sitemap.xml"),
		"feed.xml":         readOutput(t, cfg, "feed.xml"),
	}

	_, err = Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
	for rel, want := range first {
		assert.Equal(t, want, readOutput(t, cfg, rel), "output %s changed between identical builds", rel)
	}
}

func TestRun_Sitemap_CoversAllPagesSorted(t *testing.T) {
	cfg := fixtureSite(t, "")

	_, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)

	sitemap := readOutput(t, cfg, "sitemap.xml")
	assert.Contains(t, sitemap, "<loc>https://example.com/</loc>")
	assert.Contains(t, sitemap, "<loc>https://example.com/about/</loc>")
	assert.Contains(t, sitemap, "<loc>https://example.com/projects/demo/</loc>")
	assert.Contains(t, sitemap, "<loc>https://example.com/blog/2016/02/19/hello/</loc>")
}

func TestRun_RSSFeed_NewestPostFirst(t *testing.T) {
	cfg := fixtureSite(t, "")

	_, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)

	feed := readOutput(t, cfg, "feed.xml")
	idxAgain := strings.Index(feed, "Again")
	idxHello := strings.Index(feed, "Hello")
	require.GreaterOrEqual(t, idxAgain, 0)
	require.GreaterOrEqual(t, idxHello, 0)
	assert.Less(t, idxAgain, idxHello, "posts should be date-descending in the feed")
}

func TestRun_IncrementalBuild_SkipsUnchangedPages(t *testing.T) {
	cfg := fixtureSite(t, "cache:\n  enabled: true\n")
	cfg.Cache.Path = filepath.Join(t.TempDir(), "cache.db")

	report, err := Run(context.Background(), cfg, Options{Incremental: true})
	require.NoError(t, err)
	assert.Equal(t, 5, report.RenderedPages)
	assert.Equal(t, 0, report.SkippedPages)

	report, err = Run(context.Background(), cfg, Options{Incremental: true})
	require.NoError(t, err)
	assert.Equal(t, 0, report.RenderedPages)
	assert.Equal(t, 5, report.SkippedPages)
}

func TestRun_StrictMode_UndefinedVariableFailsBuild(t *testing.T) {
	cfg := fixtureSite(t, "strict: true\n")
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.Dirs.Layouts, "default.html"),
		[]byte("{{.Page.Params.not_a_real_key}}"), 0644))

	_, err := Run(context.Background(), cfg, Options{})
	require.Error(t, err)
}

func TestRun_CanceledContext_StopsPipeline(t *testing.T) {
	cfg := fixtureSite(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg, Options{})
	require.Error(t, err)
}

func TestRun_EmptyContentDir_WarnsButSucceeds(t *testing.T) {
	cfg := fixtureSite(t, "")
	require.NoError(t, os.RemoveAll(cfg.Dirs.Content))
	require.NoError(t, os.MkdirAll(cfg.Dirs.Content, 0755))

	report, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Pages)
	assert.Contains(t, report.StageOutcome[StageScanContent], "warning")
}

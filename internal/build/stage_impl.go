package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jacksosa/sitegen/internal/cache"
	"github.com/jacksosa/sitegen/internal/collection"
	"github.com/jacksosa/sitegen/internal/content"
	"github.com/jacksosa/sitegen/internal/errors"
	"github.com/jacksosa/sitegen/internal/gitinfo"
	"github.com/jacksosa/sitegen/internal/logfields"
	"github.com/jacksosa/sitegen/internal/render"
	"github.com/jacksosa/sitegen/internal/sitedata"
)

// stagePrepareOutput creates (and optionally cleans) the output directory.
// Incremental builds never clean, or there would be nothing to skip against.
func stagePrepareOutput(_ context.Context, bs *State) error {
	if bs.Config.Output.Clean && !bs.Options.Incremental {
		if err := os.RemoveAll(bs.Output); err != nil {
			return newFatalStageError(StagePrepareOutput, errors.OutputError("clean", err))
		}
	}
	if err := os.MkdirAll(bs.Output, 0755); err != nil {
		return newFatalStageError(StagePrepareOutput, errors.OutputError("mkdir", err))
	}
	return nil
}

func stageLoadData(_ context.Context, bs *State) error {
	data, err := sitedata.Load(bs.Config.Dirs.Data)
	if err != nil {
		return newFatalStageError(StageLoadData, err)
	}
	bs.Data = data
	return nil
}

func stageScanContent(_ context.Context, bs *State) error {
	scanner := content.NewScanner(bs.Config, bs.Options.IncludeDrafts)
	pages, assets, err := scanner.Scan()
	if err != nil {
		return newFatalStageError(StageScanContent, err)
	}
	if len(pages) == 0 {
		return newWarnStageError(StageScanContent, fmt.Errorf("no content pages found in %s", bs.Config.Dirs.Content))
	}
	bs.Pages = pages
	bs.Assets = assets
	return nil
}

func stageAggregate(_ context.Context, bs *State) error {
	site, err := collection.Aggregate(bs.Config, bs.Pages)
	if err != nil {
		return newFatalStageError(StageAggregate, err)
	}
	bs.Site = site
	bs.Report.Pages = len(site.Pages)
	for name, members := range site.Collections {
		bs.Report.Collections[name] = len(members)
	}
	return nil
}

// stageGitInfo overrides page modification times from git history. Missing
// git metadata is a warning: the file mtimes still stand.
func stageGitInfo(ctx context.Context, bs *State) error {
	if !bs.Config.GitInfo {
		return nil
	}
	resolver, err := gitinfo.Open(bs.Config.Dirs.Content)
	if err != nil {
		return newWarnStageError(StageGitInfo, fmt.Errorf("git history unavailable: %w", err))
	}
	for _, page := range bs.Site.Pages {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageGitInfo, ctx.Err())
		default:
		}
		if when, ok := resolver.LastModified(page.SourcePath); ok {
			page.LastMod = when
		}
	}
	return nil
}

func stageRenderPages(ctx context.Context, bs *State) error {
	siteCtx := render.NewSiteContext(bs.Config, bs.Data, bs.Site.Collections, bs.Site.Pages)
	engine := render.NewEngine(bs.Config, siteCtx)
	if err := engine.LoadLayouts(); err != nil {
		return newFatalStageError(StageRenderPages, err)
	}

	keep := make(map[string]struct{}, len(bs.Site.Pages))
	for _, page := range bs.Site.Pages {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageRenderPages, ctx.Err())
		default:
		}
		keep[page.RelativePath] = struct{}{}

		outPath := filepath.Join(bs.Output, filepath.FromSlash(page.OutputPath))
		fingerprint := cache.Fingerprint(page.Raw, bs.ConfigHash)

		if bs.Cache != nil && bs.Options.Incremental {
			if unchanged, err := bs.Cache.Unchanged(page.RelativePath, fingerprint); err == nil && unchanged {
				if _, statErr := os.Stat(outPath); statErr == nil {
					bs.Report.SkippedPages++
					slog.Debug("Skipping unchanged page", logfields.Page(page.RelativePath))
					continue
				}
			}
		}

		html, err := bs.Markdown.Render(page.Body)
		if err != nil {
			return newFatalStageError(StageRenderPages, errors.RenderError(page.RelativePath, err))
		}
		page.HTML = html

		out, err := engine.RenderPage(page, html)
		if err != nil {
			return newFatalStageError(StageRenderPages, err)
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return newFatalStageError(StageRenderPages, errors.OutputError("mkdir", err))
		}
		if err := os.WriteFile(outPath, out, 0644); err != nil {
			return newFatalStageError(StageRenderPages, errors.OutputError("write", err))
		}
		bs.Report.RenderedPages++
		slog.Debug("Rendered page", logfields.Page(page.RelativePath), logfields.Output(page.OutputPath))

		if bs.Cache != nil {
			if err := bs.Cache.Record(page.RelativePath, fingerprint, page.OutputPath); err != nil {
				slog.Warn("Failed to record cache entry", logfields.Page(page.RelativePath), logfields.Error(err))
			}
		}
	}

	if bs.Cache != nil {
		if err := bs.Cache.Prune(keep); err != nil {
			slog.Warn("Failed to prune build cache", logfields.Error(err))
		}
	}
	return nil
}

// stageCopyStatic copies the static directory and content-tree assets into
// the output, preserving relative paths.
func stageCopyStatic(ctx context.Context, bs *State) error {
	staticDir := bs.Config.Dirs.Static
	if fi, err := os.Stat(staticDir); err == nil && fi.IsDir() {
		if err := copyTree(ctx, staticDir, bs.Output); err != nil {
			return newFatalStageError(StageCopyStatic, errors.OutputError("copy static", err))
		}
	}

	for _, asset := range bs.Assets {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageCopyStatic, ctx.Err())
		default:
		}
		dst := filepath.Join(bs.Output, filepath.FromSlash(asset.RelativePath))
		if err := copyFile(asset.SourcePath, dst); err != nil {
			return newFatalStageError(StageCopyStatic, errors.OutputError("copy asset", err))
		}
		bs.Report.Assets++
	}
	return nil
}

func stageWriteFeeds(_ context.Context, bs *State) error {
	if err := writeSitemap(bs); err != nil {
		return newFatalStageError(StageWriteFeeds, err)
	}
	if err := writeRSS(bs); err != nil {
		return newFatalStageError(StageWriteFeeds, err)
	}
	return nil
}

func stageWriteReport(_ context.Context, bs *State) error {
	if err := bs.Report.write(bs.Output); err != nil {
		return newWarnStageError(StageWriteReport, err)
	}
	return nil
}

func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

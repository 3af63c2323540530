// Package build runs the site build: a single-pass batch pipeline that turns
// configuration plus content into a static output tree.
package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jacksosa/sitegen/internal/cache"
	"github.com/jacksosa/sitegen/internal/collection"
	"github.com/jacksosa/sitegen/internal/config"
	"github.com/jacksosa/sitegen/internal/content"
	"github.com/jacksosa/sitegen/internal/markdown"
	"github.com/jacksosa/sitegen/internal/metrics"
)

// Options control one build invocation.
type Options struct {
	OutputDir     string // overrides cfg.Output.Directory when non-empty
	IncludeDrafts bool
	Incremental   bool // reuse the fingerprint cache to skip unchanged pages
	Recorder      metrics.Recorder
}

// State carries mutable state across stages of one build.
type State struct {
	Config   *config.Config
	Options  Options
	Output   string
	Recorder metrics.Recorder
	Report   *Report

	Data       map[string]any
	Pages      []*content.Page
	Assets     []content.Asset
	Site       *collection.Site
	Markdown   *markdown.Renderer
	Cache      *cache.Store
	ConfigHash string
}

// Run executes a full build and returns its report. The returned error, if
// any, is the first fatal stage error.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Report, error) {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}

	output := cfg.Output.Directory
	if opts.OutputDir != "" {
		output = opts.OutputDir
	}

	bs := &State{
		Config:     cfg,
		Options:    opts,
		Output:     output,
		Recorder:   opts.Recorder,
		Report:     newReport(),
		Markdown:   markdown.NewRenderer(cfg.Markup),
		ConfigHash: hashConfig(cfg),
	}

	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			// A broken cache degrades to a full rebuild, never a failed build.
			slog.Warn("Build cache unavailable; building from scratch", "error", err)
		} else {
			bs.Cache = store
			defer func() { _ = store.Close() }()
		}
	}

	slog.Info("Starting site build",
		slog.String("output", output),
		slog.Bool("incremental", opts.Incremental),
		slog.Bool("drafts", opts.IncludeDrafts))

	start := time.Now()
	pipeline := NewPipeline().
		Add(StagePrepareOutput, stagePrepareOutput).
		Add(StageLoadData, stageLoadData).
		Add(StageScanContent, stageScanContent).
		Add(StageAggregate, stageAggregate).
		Add(StageGitInfo, stageGitInfo).
		Add(StageRenderPages, stageRenderPages).
		Add(StageCopyStatic, stageCopyStatic).
		Add(StageWriteFeeds, stageWriteFeeds).
		Add(StageWriteReport, stageWriteReport)

	err := pipeline.Run(ctx, bs)
	bs.Report.Duration = time.Since(start)
	bs.Recorder.ObserveBuildDuration(bs.Report.Duration)

	for name, outcome := range bs.Report.StageOutcome {
		bs.Recorder.IncStageResult(name, metrics.ResultLabel(outcome))
	}

	if err != nil {
		bs.Recorder.IncBuildOutcome("failed")
		return bs.Report, err
	}
	bs.Recorder.IncBuildOutcome("success")
	bs.Recorder.SetPagesRendered(bs.Report.RenderedPages)

	slog.Info("Site build complete",
		slog.Int("pages", bs.Report.Pages),
		slog.Int("rendered", bs.Report.RenderedPages),
		slog.Int("skipped", bs.Report.SkippedPages),
		slog.Duration("duration", bs.Report.Duration))
	return bs.Report, nil
}

// hashConfig fingerprints the effective configuration so any config change
// invalidates the incremental cache.
func hashConfig(cfg *config.Config) string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/jacksosa/sitegen/internal/build"
	"github.com/jacksosa/sitegen/internal/config"
	"github.com/jacksosa/sitegen/internal/errors"
	"github.com/jacksosa/sitegen/internal/linkcheck"
	"github.com/jacksosa/sitegen/internal/preview"
)

var CLI struct {
	Config  string `short:"c" help:"Site configuration file path" default:"site.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output      string `short:"o" help:"Output directory for the generated site"`
		Drafts      bool   `short:"D" help:"Include draft pages in the build"`
		Strict      bool   `help:"Fail on undefined template variables and undeclared collections"`
		Incremental bool   `short:"i" help:"Skip pages whose source and configuration are unchanged"`
	} `cmd:"" help:"Build the site into the output directory"`

	Serve struct {
		Port   int  `short:"p" help:"Port to serve the site on" default:"8080"`
		Drafts bool `short:"D" help:"Include draft pages"`
	} `cmd:"" help:"Build the site, serve it locally and rebuild on change"`

	Init struct {
		Force bool `help:"Overwrite an existing configuration file"`
	} `cmd:"" help:"Initialize a new site configuration file"`

	Check struct {
		Output string `short:"o" help:"Output directory to check"`
	} `cmd:"" help:"Build the site and verify internal links in the output"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch ctx.Command() {
	case "build":
		if err := runBuild(); err != nil {
			slog.Error("Build failed", "category", errors.GetCategory(err), "error", err)
			os.Exit(1)
		}
	case "serve":
		if err := runServe(); err != nil {
			slog.Error("Serve failed", "category", errors.GetCategory(err), "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "category", errors.GetCategory(err), "error", err)
			os.Exit(1)
		}
	case "check":
		if err := runCheck(); err != nil {
			slog.Error("Check failed", "category", errors.GetCategory(err), "error", err)
			os.Exit(1)
		}
	}
}

func runBuild() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	if CLI.Build.Strict {
		cfg.Strict = true
	}

	report, err := build.Run(context.Background(), cfg, build.Options{
		OutputDir:     CLI.Build.Output,
		IncludeDrafts: CLI.Build.Drafts,
		Incremental:   CLI.Build.Incremental,
	})
	if err != nil {
		return err
	}

	slog.Info("Build completed",
		"pages", report.Pages,
		"rendered", report.RenderedPages,
		"skipped", report.SkippedPages,
		"warnings", len(report.Warnings),
		"duration", report.Duration)
	return nil
}

func runServe() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return preview.Serve(ctx, cfg, CLI.Serve.Port, build.Options{
		IncludeDrafts: CLI.Serve.Drafts,
	})
}

func runCheck() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	output := cfg.Output.Directory
	if CLI.Check.Output != "" {
		output = CLI.Check.Output
	}

	if _, err := build.Run(context.Background(), cfg, build.Options{
		OutputDir: CLI.Check.Output,
	}); err != nil {
		return err
	}

	result, err := linkcheck.NewChecker(output, cfg.BaseURL).Run(context.Background())
	if err != nil {
		return err
	}

	slog.Info("Link check completed",
		"pages", result.PagesChecked,
		"links", result.LinksChecked,
		"external", len(result.ExternalLinks),
		"broken", len(result.Broken))

	if len(result.Broken) > 0 {
		return fmt.Errorf("%d broken internal links", len(result.Broken))
	}
	return nil
}

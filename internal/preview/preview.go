// Package preview serves the built site locally, rebuilding on source
// changes.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jacksosa/sitegen/internal/build"
	"github.com/jacksosa/sitegen/internal/config"
	"github.com/jacksosa/sitegen/internal/logfields"
	"github.com/jacksosa/sitegen/internal/metrics"
)

// debounceDelay coalesces editor save bursts into one rebuild.
const debounceDelay = 300 * time.Millisecond

// buildStatus tracks the current build state for error display.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.hasGoodBuild = true
}

func (bs *buildStatus) snapshot() (err error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.hasGoodBuild
}

// Serve builds the site, serves the output directory over HTTP and watches
// the source tree, rebuilding on change. It blocks until ctx is canceled.
func Serve(ctx context.Context, cfg *config.Config, port int, opts build.Options) error {
	recorder := metrics.NewPrometheusRecorder()
	opts.Recorder = recorder

	status := &buildStatus{}
	runBuild := func() {
		if _, err := build.Run(ctx, cfg, opts); err != nil {
			slog.Error("Rebuild failed; serving last good build", logfields.Error(err))
			status.setError(err)
			return
		}
		status.setSuccess()
	}

	runBuild()
	if err, good := status.snapshot(); !good {
		return fmt.Errorf("initial build failed: %w", err)
	}

	output := cfg.Output.Directory
	if opts.OutputDir != "" {
		output = opts.OutputDir
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(output)))
	mux.Handle("/metrics", recorder.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		err, good := status.snapshot()
		if !good {
			http.Error(w, "no successful build", http.StatusServiceUnavailable)
			return
		}
		if err != nil {
			fmt.Fprintf(w, "serving stale build: %v\n", err)
			return
		}
		fmt.Fprintln(w, "ok")
	})

	server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	errChan := make(chan error, 1)
	go func() {
		slog.Info("Serving site", slog.Int("port", port), logfields.Output(output))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	watcher, err := newSourceWatcher(cfg)
	if err != nil {
		_ = server.Close()
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuild := make(chan struct{}, 1)
	go debounceLoop(ctx, watcher, rebuild)

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case err := <-errChan:
			return fmt.Errorf("http server: %w", err)
		case <-rebuild:
			slog.Info("Source change detected; rebuilding")
			runBuild()
		}
	}
}

// newSourceWatcher watches the content, layouts, data and static trees plus
// the config file. fsnotify does not recurse, so every subdirectory is added
// explicitly; directories created later are picked up in debounceLoop.
func newSourceWatcher(cfg *config.Config) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	roots := []string{cfg.Dirs.Content, cfg.Dirs.Layouts, cfg.Dirs.Data, cfg.Dirs.Static}
	for _, root := range roots {
		if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", root, err)
		}
	}
	return watcher, nil
}

// debounceLoop converts bursts of filesystem events into single rebuild
// requests.
func debounceLoop(ctx context.Context, watcher *fsnotify.Watcher, rebuild chan<- struct{}) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerC = timer.C
			} else {
				timer.Reset(debounceDelay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", logfields.Error(err))
		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case rebuild <- struct{}{}:
			default:
			}
		}
	}
}

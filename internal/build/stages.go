package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sgerrors "github.com/jacksosa/sitegen/internal/errors"
	"github.com/jacksosa/sitegen/internal/logfields"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *State) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newWarnStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}
func newCanceledStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// Stage names, in execution order.
const (
	StagePrepareOutput = "prepare_output"
	StageLoadData      = "load_data"
	StageScanContent   = "scan_content"
	StageAggregate     = "aggregate_collections"
	StageGitInfo       = "git_info"
	StageRenderPages   = "render_pages"
	StageCopyStatic    = "copy_static"
	StageWriteFeeds    = "write_feeds"
	StageWriteReport   = "write_report"
)

type namedStage struct {
	name string
	fn   Stage
}

// Pipeline is an ordered list of named stages.
type Pipeline struct {
	stages []namedStage
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{} }

// Add appends a stage and returns the pipeline for chaining.
func (p *Pipeline) Add(name string, fn Stage) *Pipeline {
	p.stages = append(p.stages, namedStage{name: name, fn: fn})
	return p
}

// Run executes stages in order, recording timing and stopping on the first
// fatal error. Warnings are accumulated on the report and execution
// continues.
func (p *Pipeline) Run(ctx context.Context, bs *State) error {
	for _, st := range p.stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.name, ctx.Err())
			bs.Report.recordStage(st.name, 0, se)
			return se
		default:
		}

		t0 := time.Now()
		err := st.fn(ctx, bs)
		dur := time.Since(t0)
		bs.Recorder.ObserveStageDuration(st.name, dur)

		if err == nil {
			bs.Report.recordStage(st.name, dur, nil)
			slog.Debug("Stage completed",
				logfields.Stage(st.name),
				logfields.DurationMS(float64(dur.Milliseconds())))
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			// Bare errors inherit the severity of any SiteError in their
			// chain; anything else is fatal.
			if sgerrors.IsFatal(err) {
				se = newFatalStageError(st.name, err)
			} else {
				se = newWarnStageError(st.name, err)
			}
		}
		bs.Report.recordStage(st.name, dur, se)
		if se.Kind == StageErrorWarning {
			slog.Warn("Stage completed with warning",
				logfields.Stage(st.name),
				logfields.Error(se.Err))
			continue
		}
		return se
	}
	return nil
}

package build

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jacksosa/sitegen/internal/metrics"
)

// Report summarizes one build for operators and the serve loop.
type Report struct {
	BuildID       string                   `json:"build_id"`
	Pages         int                      `json:"pages"`
	RenderedPages int                      `json:"rendered_pages"`
	SkippedPages  int                      `json:"skipped_pages"`
	Assets        int                      `json:"assets"`
	Collections   map[string]int           `json:"collections,omitempty"`
	StageDuration map[string]time.Duration `json:"stage_durations"`
	StageOutcome  map[string]string        `json:"stage_outcomes"`
	Warnings      []string                 `json:"warnings,omitempty"`
	Duration      time.Duration            `json:"duration"`
}

func newReport() *Report {
	return &Report{
		BuildID:       uuid.NewString(),
		Collections:   map[string]int{},
		StageDuration: map[string]time.Duration{},
		StageOutcome:  map[string]string{},
	}
}

func (r *Report) recordStage(name string, dur time.Duration, se *StageError) {
	r.StageDuration[name] = dur
	switch {
	case se == nil:
		r.StageOutcome[name] = string(metrics.ResultSuccess)
	case se.Kind == StageErrorWarning:
		r.StageOutcome[name] = string(metrics.ResultWarning)
		r.Warnings = append(r.Warnings, se.Error())
	default:
		r.StageOutcome[name] = string(se.Kind)
	}
}

// write persists the report as JSON into the output directory. The report is
// operational metadata and deliberately excluded from the byte-identical
// output guarantee (its build ID is fresh each run).
func (r *Report) write(outputDir string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "build-report.json"), data, 0644)
}

package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder forwards build metrics to a Prometheus registry. It is
// wired in by the serve command, where repeated rebuilds make the numbers
// worth scraping.
type PrometheusRecorder struct {
	registry      *prom.Registry
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	stageResults  *prom.CounterVec
	buildOutcomes *prom.CounterVec
	pagesRendered prom.Gauge
}

// NewPrometheusRecorder creates a recorder with its own registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prom.NewRegistry(),
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "sitegen_stage_duration_seconds",
			Help:    "Duration of individual build stages.",
			Buckets: prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Name:    "sitegen_build_duration_seconds",
			Help:    "Total duration of site builds.",
			Buckets: prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Name: "sitegen_stage_results_total",
			Help: "Stage results by outcome.",
		}, []string{"stage", "result"}),
		buildOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Name: "sitegen_build_outcomes_total",
			Help: "Build outcomes.",
		}, []string{"outcome"}),
		pagesRendered: prom.NewGauge(prom.GaugeOpts{
			Name: "sitegen_pages_rendered",
			Help: "Pages rendered by the most recent build.",
		}),
	}
	r.registry.MustRegister(r.stageDuration, r.buildDuration, r.stageResults, r.buildOutcomes, r.pagesRendered)
	return r
}

// Handler returns the /metrics HTTP handler for this recorder's registry.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (r *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	r.buildDuration.Observe(d.Seconds())
}

func (r *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	r.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (r *PrometheusRecorder) IncBuildOutcome(outcome string) {
	r.buildOutcomes.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRecorder) SetPagesRendered(n int) {
	r.pagesRendered.Set(float64(n))
}

// Package metrics exports Prometheus metrics about program builds.
//
// A Recorder is passed to core.NewService with core.WithObserver and sees
// every build, whether it came from the CLI, the server's refresher or a
// preview upload.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/confprogram/internal/core"
)

const namespace = "confprogram"

// Outcome label values of the runs counter.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Recorder holds the build metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	runs        *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	duration    prometheus.Histogram
	talks       prometheus.Gauge
	posters     prometheus.Gauge
	previews    prometheus.Gauge
}

// NewRecorder creates a Recorder with the Go runtime and process collectors
// registered next to the build metrics.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Program builds by outcome and error code.",
		}, []string{"outcome", "code"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Data-quality diagnostics reported during classification.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time spent validating and classifying a spreadsheet.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		talks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "talks",
			Help:      "Talks in the most recent successful build.",
		}),
		posters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "posters",
			Help:      "Posters in the most recent successful build.",
		}),
		previews: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "previews_in_flight",
			Help:      "Preview uploads currently being classified.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.runs,
		r.diagnostics,
		r.duration,
		r.talks,
		r.posters,
		r.previews,
	)
	return r
}

// ObserveRun implements core.RunObserver.
func (r *Recorder) ObserveRun(p *core.Program, elapsed time.Duration, err error) {
	r.duration.Observe(elapsed.Seconds())

	if err != nil {
		r.runs.WithLabelValues(OutcomeFailed, core.MapError(err).Code).Inc()
		return
	}

	r.runs.WithLabelValues(OutcomeOK, "").Inc()
	r.talks.Set(float64(len(p.Talks)))
	r.posters.Set(float64(len(p.Posters)))
	for _, d := range p.Diagnostics {
		r.diagnostics.WithLabelValues(string(d.Kind)).Inc()
	}
}

// PreviewStarted and PreviewDone track in-flight preview uploads.
func (r *Recorder) PreviewStarted() { r.previews.Inc() }

// PreviewDone marks the end of a preview started with PreviewStarted.
func (r *Recorder) PreviewDone() { r.previews.Dec() }

// Registry returns the registry the metrics live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Package metrics records operational counters with Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements secondary.Metrics.
type Recorder struct {
	registry   *prometheus.Registry
	updates    *prometheus.CounterVec
	duplicates prometheus.Counter
}

// NewRecorder registers the counters on a private registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "claim_updates_total",
			Help:      "Status and data updates sent to the backend.",
		}, []string{"type"}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "duplicate_submissions_total",
			Help:      "Form submissions refused as duplicates.",
		}),
	}
	r.registry.MustRegister(r.updates, r.duplicates)
	return r
}

// IncUpdate counts one update of kind ("status" or "data").
func (r *Recorder) IncUpdate(kind string) {
	r.updates.WithLabelValues(kind).Inc()
}

// IncDuplicateSubmission counts one refused duplicate.
func (r *Recorder) IncDuplicateSubmission() {
	r.duplicates.Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

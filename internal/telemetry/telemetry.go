package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Telemetry tracks pipeline throughput and stage timings via Prometheus.
// A nil *Telemetry is valid and records nothing, so tests can pass nil.
type Telemetry struct {
	requestsTotal *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	upstreamCalls *prometheus.CounterVec
}

// New registers the detection metrics on the given registerer. Pass
// prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Telemetry {
	factory := promauto.With(reg)
	return &Telemetry{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prism_detections_total",
			Help: "Detection requests by terminal outcome (ok, blocked, no_results, error).",
		}, []string{"outcome"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "prism_stage_duration_seconds",
			Help:    "Wall time spent per pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"stage"}),
		upstreamCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prism_upstream_calls_total",
			Help: "Calls to external collaborators by kind (llm, search, embed) and status.",
		}, []string{"kind", "status"}),
	}
}

// RecordOutcome counts one finished request.
func (t *Telemetry) RecordOutcome(outcome string) {
	if t == nil {
		return
	}
	t.requestsTotal.WithLabelValues(outcome).Inc()
}

// RecordStage records the elapsed time of one pipeline stage.
func (t *Telemetry) RecordStage(stage string, elapsed time.Duration) {
	if t == nil {
		return
	}
	t.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// RecordUpstream counts one external call.
func (t *Telemetry) RecordUpstream(kind string, err error) {
	if t == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	t.upstreamCalls.WithLabelValues(kind, status).Inc()
}

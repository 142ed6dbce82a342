package metrics

import (
	"net/http"
	"time"

	"telegram_relay/internal/domain/relay"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the relay collectors and the registry they are exposed from.
type Recorder struct {
	registry         *prometheus.Registry
	requests         *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

// NewRecorder creates the collectors on a dedicated registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "Relay requests by route and outcome.",
		}, []string{"route", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relay_upstream_duration_seconds",
			Help:    "Duration of Telegram sendMessage calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"credentials", "outcome"}),
	}
	r.registry.MustRegister(
		r.requests,
		r.upstreamDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRequest counts a finished relay request.
func (r *Recorder) ObserveRequest(route string, outcome relay.Outcome) {
	r.requests.WithLabelValues(route, string(outcome)).Inc()
}

// ObserveUpstream records the duration of one Telegram call.
func (r *Recorder) ObserveUpstream(strategy string, outcome relay.Outcome, d time.Duration) {
	r.upstreamDuration.WithLabelValues(strategy, string(outcome)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

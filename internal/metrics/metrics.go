// Package metrics exposes Prometheus instruments for the verdict service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds every Prometheus instrument of the service
// ⭐ SSOT: 메트릭 정의는 여기서만
type Recorder struct {
	gatherer prometheus.Gatherer

	evaluations    *prometheus.CounterVec
	unknownSignals *prometheus.CounterVec
	evalDuration   prometheus.Histogram
	cacheLookups   *prometheus.CounterVec
	rankedSnaps    prometheus.Gauge
	jobRuns        *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	streamClients  prometheus.Gauge
	streamDrops    prometheus.Counter
}

// New registers the instruments on reg. Pass a fresh registry in tests
// to avoid duplicate registration on the default one.
func New(reg *prometheus.Registry) *Recorder {
	f := promauto.With(reg)

	return &Recorder{
		gatherer: reg,
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stockaura_evaluations_total",
			Help: "Verdict evaluations by tier and rule set",
		}, []string{"tier", "rule_set"}),
		unknownSignals: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stockaura_unknown_signals_total",
			Help: "Evaluations whose final signal was not in the catalog",
		}, []string{"signal"}),
		evalDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockaura_evaluation_duration_seconds",
			Help:    "Time spent in one engine evaluation",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
		}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stockaura_cache_lookups_total",
			Help: "Verdict and ranking cache lookups by result",
		}, []string{"cache", "result"}),
		rankedSnaps: f.NewGauge(prometheus.GaugeOpts{
			Name: "stockaura_ranked_snapshots",
			Help: "Snapshots included in the last ranking refresh",
		}),
		jobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stockaura_job_runs_total",
			Help: "Scheduler job runs by job and status",
		}, []string{"job", "status"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stockaura_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockaura_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "method"}),
		streamClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "stockaura_stream_clients",
			Help: "Connected verdict stream clients",
		}),
		streamDrops: f.NewCounter(prometheus.CounterOpts{
			Name: "stockaura_stream_dropped_events_total",
			Help: "Stream events dropped because a client queue was full",
		}),
	}
}

// Nop returns a recorder on a private registry (CLI, tests)
func Nop() *Recorder {
	return New(prometheus.NewRegistry())
}

// RecordEvaluation counts one evaluation
func (r *Recorder) RecordEvaluation(tier, ruleSet string, seconds float64) {
	r.evaluations.WithLabelValues(tier, ruleSet).Inc()
	r.evalDuration.Observe(seconds)
}

// RecordUnknownSignal counts a data-quality miss
func (r *Recorder) RecordUnknownSignal(signal string) {
	r.unknownSignals.WithLabelValues(signal).Inc()
}

// RecordCache counts a cache lookup; hit=false is a miss
func (r *Recorder) RecordCache(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(cache, result).Inc()
}

// SetRankedSnapshots records the size of the last ranking
func (r *Recorder) SetRankedSnapshots(n int) {
	r.rankedSnaps.Set(float64(n))
}

// RecordJobRun counts one scheduler run
func (r *Recorder) RecordJobRun(job string, ok bool) {
	status := "success"
	if !ok {
		status = "failed"
	}
	r.jobRuns.WithLabelValues(job, status).Inc()
}

// RecordHTTP counts one request; route must be the template, not the raw path
func (r *Recorder) RecordHTTP(route, method, status string, seconds float64) {
	r.httpRequests.WithLabelValues(route, method, status).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(seconds)
}

// StreamConnected adjusts the stream client gauge by delta (+1 / -1)
func (r *Recorder) StreamConnected(delta int) {
	r.streamClients.Add(float64(delta))
}

// RecordStreamDrop counts one event dropped for a slow client
func (r *Recorder) RecordStreamDrop() {
	r.streamDrops.Inc()
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

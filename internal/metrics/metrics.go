package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the bot. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	CacheLookups     *prometheus.CounterVec   // labels: result=hit|miss|error
	ProviderRequests *prometheus.CounterVec   // labels: function, outcome
	ProviderLatency  *prometheus.HistogramVec // labels: function
	Analyses         *prometheus.CounterVec   // labels: horizon, direction
	AnalysisFailures *prometheus.CounterVec   // labels: kind
	CacheSwept       prometheus.Counter
}

// New creates the collectors and registers them on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forexbot_cache_lookups_total",
			Help: "Indicator cache lookups by result",
		}, []string{"result"}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forexbot_provider_requests_total",
			Help: "Provider HTTP requests by function and outcome",
		}, []string{"function", "outcome"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forexbot_provider_request_duration_seconds",
			Help:    "Provider HTTP request latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"function"}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forexbot_analyses_total",
			Help: "Completed analyses by horizon and direction",
		}, []string{"horizon", "direction"}),
		AnalysisFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forexbot_analysis_failures_total",
			Help: "Failed analyses by error kind",
		}, []string{"kind"}),
		CacheSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forexbot_cache_swept_entries_total",
			Help: "Expired cache entries removed by the sweeper",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.CacheLookups,
			m.ProviderRequests,
			m.ProviderLatency,
			m.Analyses,
			m.AnalysisFailures,
			m.CacheSwept,
		)
	}
	return m
}

func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ProviderRequest(function, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(function, outcome).Inc()
	m.ProviderLatency.WithLabelValues(function).Observe(took.Seconds())
}

func (m *Metrics) AnalysisDone(horizon, direction string) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(horizon, direction).Inc()
}

func (m *Metrics) AnalysisFailed(kind string) {
	if m == nil {
		return
	}
	m.AnalysisFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) Swept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CacheSwept.Add(float64(n))
}

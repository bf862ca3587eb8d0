package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the client.
type Metrics struct {
	// Submission lifecycle.
	Submissions         *prometheus.CounterVec // labels: outcome={success,failure,rejected}
	SubmissionsInFlight prometheus.Gauge

	// Prediction service calls.
	PredictorRequests *prometheus.CounterVec // labels: outcome={success,http_error,transport_error,malformed}
	PredictorDuration prometheus.Histogram

	// Location sync and page sessions.
	LocationUpdates *prometheus.CounterVec // labels: source={click,drag,set}
	SessionsActive  prometheus.Gauge
	SessionsEvicted prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge

	// Outcome stream.
	OutcomesPublished *prometheus.CounterVec // labels: result={ok,error}
}

// NewMetrics creates and registers all client metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Submissions,
		m.SubmissionsInFlight,
		m.PredictorRequests,
		m.PredictorDuration,
		m.LocationUpdates,
		m.SessionsActive,
		m.SessionsEvicted,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
		m.OutcomesPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_client",
			Name:      "submissions_total",
			Help:      "Form submissions by outcome.",
		}, []string{"outcome"}),
		SubmissionsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "risk_client",
			Name:      "submissions_in_flight",
			Help:      "Submissions waiting on the prediction service.",
		}),
		PredictorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_client",
			Name:      "predictor_requests_total",
			Help:      "Prediction service requests by outcome.",
		}, []string{"outcome"}),
		PredictorDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "risk_client",
			Name:      "predictor_request_duration_seconds",
			Help:      "Prediction service request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		LocationUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_client",
			Name:      "location_updates_total",
			Help:      "Marker/field synchronizations by gesture source.",
		}, []string{"source"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "risk_client",
			Name:      "sessions_active",
			Help:      "Page sessions currently held in memory.",
		}),
		SessionsEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "risk_client",
			Name:      "sessions_evicted_total",
			Help:      "Page sessions dropped from the session cache.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_client",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_client",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "risk_client",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "risk_client",
			Name:      "geocode_enabled",
			Help:      "1 when address lookup is enabled, 0 otherwise.",
		}),
		OutcomesPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_client",
			Name:      "outcomes_published_total",
			Help:      "Submission outcome events written to Kafka by result.",
		}, []string{"result"}),
	}
}

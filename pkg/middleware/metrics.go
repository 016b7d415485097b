package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/waypoint/pkg/pipeline"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "waypoint").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "waypoint",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records Prometheus metrics for the pipelines it wraps.
//
// Metrics collected:
//   - waypoint_navigations_total: Counter of resolved navigations by outcome
//   - waypoint_navigation_duration_seconds: Histogram of resolution time by outcome
//   - waypoint_navigation_errors_total: Counter of failed navigations by error type
//   - waypoint_navigations_in_flight: Gauge of navigations still resolving
//
// Navigations dropped before resolving, for example by EnsureMostRecent,
// stay counted as in flight.
type Metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
	inFlight           prometheus.Gauge
}

// NewMetrics creates and registers the navigation metrics. Registering twice
// with the same registry panics.
//
// Example:
//
//	metrics := middleware.NewMetrics(middleware.WithNamespace("myapp"))
//	r := pipeline.New(metrics.Wrap(router.Routes(routes...)))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of resolved navigations",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation resolution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"outcome"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of failed navigations",
			ConstLabels: config.ConstLabels,
		}, []string{"error_type"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_in_flight",
			Help:        "Number of navigations currently resolving",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Wrap instruments the pipeline composed from mws.
func (m *Metrics) Wrap(mws ...pipeline.Middleware) pipeline.Middleware {
	return observe(mws, func(s pipeline.State) (pipeline.State, func(error, pipeline.State)) {
		start := time.Now()
		m.inFlight.Inc()

		return s, func(err error, resolved pipeline.State) {
			m.inFlight.Dec()

			outcome := pipeline.Classify(err, resolved).String()
			m.navigationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
			m.navigationsTotal.WithLabelValues(outcome).Inc()
			if err != nil {
				m.navigationErrors.WithLabelValues(categorizeError(err)).Inc()
			}
		}
	})
}

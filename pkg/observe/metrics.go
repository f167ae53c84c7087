package observe

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	ferrors "github.com/vango-dev/filterkit/internal/errors"
	"github.com/vango-dev/filterkit/pkg/codec"
	"github.com/vango-dev/filterkit/pkg/filter"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "filterkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: 10 exponential buckets starting at 1µs.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
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

var defaultBuckets = prometheus.ExponentialBuckets(1e-6, 4, 10)

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "filterkit",
		Buckets:   defaultBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a filter.Observer that records session operations.
type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	ignoredUpdates    prometheus.Counter
	registeredFields  prometheus.Gauge
}

// Prometheus creates an observer that collects Prometheus metrics for
// filter sessions. The metrics are registered once, on the configured
// registry; share the returned value between sessions.
//
// Metrics collected:
//   - filterkit_operations_total: Counter of operations by op and status
//   - filterkit_operation_duration_seconds: Histogram of operation duration
//   - filterkit_errors_total: Counter of failed operations by op and error kind
//   - filterkit_ignored_updates_total: Counter of SetValue calls on unknown filters
//   - filterkit_registered_fields: Gauge of fields bound in the last observed session
//
// Example:
//
//	m := observe.Prometheus(observe.WithNamespace("shop"))
//	s, err := filter.New(filter.WithObserver(m))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		operationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operations_total",
			Help:        "Total number of filter session operations",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "status"}),

		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operation_duration_seconds",
			Help:        "Filter session operation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "errors_total",
			Help:        "Total number of failed filter session operations",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "kind"}),

		ignoredUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "ignored_updates_total",
			Help:        "Total number of updates naming a filter that is not in the store",
			ConstLabels: config.ConstLabels,
		}),

		registeredFields: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "registered_fields",
			Help:        "Number of fields bound in the most recently observed session",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Observe implements filter.Observer.
func (m *Metrics) Observe(e filter.Event) {
	op := string(e.Op)
	m.operationDuration.WithLabelValues(op).Observe(e.Duration.Seconds())

	status := "success"
	switch {
	case e.Err != nil:
		status = "error"
		m.errorsTotal.WithLabelValues(op, errorKind(e.Err)).Inc()
	case e.Ignored:
		status = "ignored"
		m.ignoredUpdates.Inc()
	}
	m.operationsTotal.WithLabelValues(op, status).Inc()
	m.registeredFields.Set(float64(e.Fields))
}

// errorKind maps an error to a low-cardinality label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, codec.ErrUnknownCodec):
		return "unknown_codec"
	case errors.Is(err, codec.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, codec.ErrInvalidCodec):
		return "invalid_codec"
	}
	var fe *ferrors.FilterError
	if errors.As(err, &fe) {
		return string(fe.Category)
	}
	return "custom"
}

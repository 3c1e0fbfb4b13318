package middleware

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/syringe/pkg/syringe"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "syringe").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets
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

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "syringe",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a syringe.Observer that records Prometheus metrics.
//
// Metrics collected:
//   - syringe_merges_total: bindings applied, by slot, policy and outcome
//   - syringe_merge_mismatches_total: incompatible merges, by slot
//   - syringe_key_collisions_total: keys shared by several children
//   - syringe_passes_total: injection passes, by path (fast or full)
//   - syringe_children_total: children seen, by kind
//   - syringe_pass_duration_seconds: injection pass duration
type Metrics struct {
	merges       *prometheus.CounterVec
	mismatches   *prometheus.CounterVec
	collisions   prometheus.Counter
	passes       *prometheus.CounterVec
	children     *prometheus.CounterVec
	passDuration prometheus.Histogram
}

var _ syringe.Observer = (*Metrics)(nil)

// NewMetrics creates and registers the metrics on the configured registry.
// Registering twice on the same registry panics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		merges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "merges_total",
			Help:        "Total number of bindings applied to children",
			ConstLabels: config.ConstLabels,
		}, []string{"slot", "policy", "outcome"}),

		mismatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "merge_mismatches_total",
			Help:        "Total number of merges across incompatible value shapes",
			ConstLabels: config.ConstLabels,
		}, []string{"slot"}),

		collisions: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "key_collisions_total",
			Help:        "Total number of keys shared by more than one child",
			ConstLabels: config.ConstLabels,
		}),

		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of injection passes",
			ConstLabels: config.ConstLabels,
		}, []string{"path"}),

		children: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "children_total",
			Help:        "Total number of wrapper children seen",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Injection pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

var (
	globalMetrics   *Metrics
	globalMetricsMu sync.Mutex
)

// Prometheus returns the process-wide Metrics registered on the default
// registerer. Options apply on the first call only.
func Prometheus(opts ...MetricsOption) *Metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		globalMetrics = NewMetrics(opts...)
	}
	return globalMetrics
}

// ObserveMerge implements syringe.Observer.
func (m *Metrics) ObserveMerge(slot syringe.Slot, policy syringe.Policy, outcome syringe.Outcome) {
	m.merges.WithLabelValues(string(slot), policy.String(), outcome.String()).Inc()
	if outcome == syringe.OutcomeMismatch {
		m.mismatches.WithLabelValues(string(slot)).Inc()
	}
}

// ObserveCollision implements syringe.Observer.
func (m *Metrics) ObserveCollision(string, int) {
	m.collisions.Inc()
}

// ObservePass implements syringe.Observer.
func (m *Metrics) ObservePass(stats syringe.PassStats) {
	path := "full"
	if stats.FastPath {
		path = "fast"
	}
	m.passes.WithLabelValues(path).Inc()
	m.children.WithLabelValues("element").Add(float64(stats.Elements))
	m.children.WithLabelValues("component").Add(float64(stats.Components))
	m.children.WithLabelValues("skipped").Add(float64(stats.Skipped))
	m.passDuration.Observe(stats.Duration.Seconds())
}

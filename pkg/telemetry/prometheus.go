package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/pathway/pkg/routing"
)

// Outcome label values.
const (
	OutcomeMatched  = "matched"
	OutcomeNotFound = "not_found"
	OutcomeOK       = "ok"
	OutcomeError    = "error"
)

// noRoute labels executions in which nothing matched.
const noRoute = "none"

// MetricsConfig configures NewPrometheus.
type MetricsConfig struct {
	// Registry receives the collectors. Default: a new registry.
	Registry *prometheus.Registry

	ConstLabels prometheus.Labels
	Namespace   string
	Subsystem   string
	Buckets     []float64
}

// MetricsOption configures NewPrometheus.
type MetricsOption func(*MetricsConfig)

// WithRegistry sets the registry the collectors are registered with.
func WithRegistry(reg *prometheus.Registry) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = reg
	}
}

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

// WithBuckets sets the histogram buckets of both duration metrics.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// Prometheus records routing activity as Prometheus metrics.
type Prometheus struct {
	registry         *prometheus.Registry
	matches          *prometheus.CounterVec
	matchDuration    prometheus.Histogram
	generates        *prometheus.CounterVec
	generateDuration prometheus.Histogram
}

// NewPrometheus creates the collectors and registers them.
// It panics if the registry already holds collectors with the same names.
func NewPrometheus(opts ...MetricsOption) *Prometheus {
	cfg := MetricsConfig{
		Namespace: "pathway",
		Subsystem: "routing",
		Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	factory := promauto.With(cfg.Registry)

	return &Prometheus{
		registry: cfg.Registry,

		matches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "matches_total",
			Help:        "Routing executions by deepest matched route and outcome",
			ConstLabels: cfg.ConstLabels,
		}, []string{"route", "outcome"}),

		matchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "match_duration_seconds",
			Help:        "Routing execution duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),

		generates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "generate_total",
			Help:        "URL generations by route and outcome",
			ConstLabels: cfg.ConstLabels,
		}, []string{"route", "outcome"}),

		generateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "generate_duration_seconds",
			Help:        "URL generation duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),
	}
}

// ObserveMatch counts the execution under its last matched route and records its duration.
func (p *Prometheus) ObserveMatch(_ context.Context, res *routing.Result, d time.Duration) {
	route, outcome := noRoute, OutcomeMatched
	if n := len(res.Routes); n > 0 {
		route = res.Routes[n-1]
	}
	if res.NotFound {
		outcome = OutcomeNotFound
	}
	p.matches.WithLabelValues(route, outcome).Inc()
	p.matchDuration.Observe(d.Seconds())
}

// ObserveGenerate counts a generation by outcome.
func (p *Prometheus) ObserveGenerate(_ context.Context, route string, d time.Duration, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	p.generates.WithLabelValues(route, outcome).Inc()
	p.generateDuration.Observe(d.Seconds())
}

// Registry returns the registry the collectors are registered with.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

var _ routing.Observer = (*Prometheus)(nil)

package telemetry

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/pathway/pkg/routing"
)

const defaultTracerName = "github.com/dmitrymomot/pathway/pkg/routing"

// Span names.
const (
	SpanExecute  = "routing.execute"
	SpanGenerate = "routing.generate"
)

// TracingOption configures NewTracing.
type TracingOption func(*tracingConfig)

type tracingConfig struct {
	provider trace.TracerProvider
	name     string
}

// WithTracerProvider sets the provider. Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *tracingConfig) {
		c.provider = tp
	}
}

// WithTracerName sets the instrumentation name.
func WithTracerName(name string) TracingOption {
	return func(c *tracingConfig) {
		c.name = name
	}
}

// Tracing records one span per execution or generation. Observers run after
// the operation, so spans are back-dated by the observed duration.
type Tracing struct {
	tracer trace.Tracer
}

// NewTracing creates a tracing observer.
func NewTracing(opts ...TracingOption) *Tracing {
	cfg := tracingConfig{name: defaultTracerName}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.provider == nil {
		cfg.provider = otel.GetTracerProvider()
	}
	return &Tracing{tracer: cfg.provider.Tracer(cfg.name)}
}

// ObserveMatch records the execution as a span.
func (t *Tracing) ObserveMatch(ctx context.Context, res *routing.Result, d time.Duration) {
	end := time.Now()
	_, span := t.tracer.Start(ctx, SpanExecute,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(
			attribute.String("routing.routes", strings.Join(res.Routes, "+")),
			attribute.Bool("routing.not_found", res.NotFound),
			attribute.String("routing.module", res.Module),
			attribute.String("routing.action", res.Action),
		),
	)
	if res.Locale != "" {
		span.SetAttributes(attribute.String("routing.locale", res.Locale))
	}
	if res.OutputType != "" {
		span.SetAttributes(attribute.String("routing.output_type", res.OutputType))
	}
	span.End(trace.WithTimestamp(end))
}

// ObserveGenerate records the generation as a span, marked as failed on error.
func (t *Tracing) ObserveGenerate(ctx context.Context, route string, d time.Duration, err error) {
	end := time.Now()
	_, span := t.tracer.Start(ctx, SpanGenerate,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(attribute.String("routing.route", route)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(end))
}

var _ routing.Observer = (*Tracing)(nil)

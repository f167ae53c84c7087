package observe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/filterkit/pkg/filter"
)

const defaultTracerName = "filterkit"

// OTelConfig configures the OpenTelemetry observer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "filterkit").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: otel.GetTracerProvider()
	TracerProvider trace.TracerProvider

	// Parent returns the context spans are started under. Use it to attach
	// session operations to the request or render that caused them.
	// Default: context.Background()
	Parent func() context.Context

	// Filter determines which events to trace.
	// If nil, all events are traced.
	Filter func(filter.Event) bool

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(filter.Event) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry observer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithParentContext sets the function returning the parent context.
func WithParentContext(parent func() context.Context) OTelOption {
	return func(c *OTelConfig) {
		c.Parent = parent
	}
}

// WithEventFilter sets a filter function for events.
func WithEventFilter(fn func(filter.Event) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = fn
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(filter.Event) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// Tracer is a filter.Observer that records each session operation as a span.
type Tracer struct {
	config OTelConfig
	tracer trace.Tracer
}

// OpenTelemetry creates an observer that traces filter session operations.
//
// Each operation becomes a span named "filterkit.<op>" that starts at
// Event.Start and ends after Event.Duration, with the touched filter names,
// the resulting revision and the field count as attributes. Failed
// operations record the error and set an error status.
//
// Example:
//
//	s, err := filter.New(filter.WithObserver(
//	    observe.OpenTelemetry(observe.WithTracerName("shop")),
//	))
func OpenTelemetry(opts ...OTelOption) *Tracer {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}

	return &Tracer{
		config: config,
		tracer: config.TracerProvider.Tracer(config.TracerName),
	}
}

// Observe implements filter.Observer.
func (t *Tracer) Observe(e filter.Event) {
	if t.config.Filter != nil && !t.config.Filter(e) {
		return
	}

	ctx := context.Background()
	if t.config.Parent != nil {
		if parent := t.config.Parent(); parent != nil {
			ctx = parent
		}
	}

	attrs := []attribute.KeyValue{
		attribute.String("filterkit.op", string(e.Op)),
		attribute.StringSlice("filterkit.names", e.Names),
		attribute.Int64("filterkit.revision", int64(e.Revision)),
		attribute.Int("filterkit.fields", e.Fields),
	}
	if e.Ignored {
		attrs = append(attrs, attribute.Bool("filterkit.ignored", true))
	}
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(e)...)
	}

	_, span := t.tracer.Start(ctx, fmt.Sprintf("filterkit.%s", e.Op),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(e.Start),
	)

	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(e.Start.Add(e.Duration)))
}

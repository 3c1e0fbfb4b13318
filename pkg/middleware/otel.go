package middleware

import (
	"context"
	"io"

	"github.com/vango-dev/syringe/pkg/render"
	"github.com/vango-dev/syringe/pkg/syringe"
	"github.com/vango-dev/syringe/pkg/vdom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name.
const defaultTracerName = "syringe"

// OTelConfig configures Tracing.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "syringe").
	TracerName string

	// Tracer overrides the tracer resolved from the global provider.
	Tracer trace.Tracer

	// AttributeExtractor adds custom attributes for a wrapper.
	AttributeExtractor func(wrapper *vdom.VNode) []attribute.KeyValue
}

// OTelOption configures Tracing.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracer sets the tracer explicitly.
func WithTracer(tracer trace.Tracer) OTelOption {
	return func(c *OTelConfig) {
		c.Tracer = tracer
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(wrapper *vdom.VNode) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// Tracing wraps injection passes and renders in OpenTelemetry spans.
//
// The tracer comes from the global provider unless WithTracer is given.
// Configure the provider in main() before use:
//
//	otel.SetTracerProvider(tp)
//	tracing := middleware.NewTracing(middleware.WithTracerName("my-app"))
type Tracing struct {
	config OTelConfig
	tracer trace.Tracer
}

// NewTracing creates a Tracing.
func NewTracing(opts ...OTelOption) *Tracing {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracing{config: config, tracer: tracer}
}

// Inject runs s.InjectStats inside a "syringe.inject" span. The pass
// statistics are recorded as span attributes; key collisions and
// mismatched merges are added as span events.
func (t *Tracing) Inject(ctx context.Context, s *syringe.Syringe, wrapper *vdom.VNode) ([]*vdom.VNode, syringe.PassStats) {
	attrs := []attribute.KeyValue{
		attribute.String("syringe.wrapper.kind", wrapperKind(wrapper)),
	}
	if wrapper != nil && wrapper.Tag != "" {
		attrs = append(attrs, attribute.String("syringe.wrapper.tag", wrapper.Tag))
	}
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(wrapper)...)
	}

	_, span := t.tracer.Start(ctx, "syringe.inject",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	children, stats := s.InjectStats(wrapper)

	span.SetAttributes(
		attribute.Int("syringe.children", stats.Children),
		attribute.Int("syringe.elements", stats.Elements),
		attribute.Int("syringe.components", stats.Components),
		attribute.Int("syringe.skipped", stats.Skipped),
		attribute.Int("syringe.bindings", stats.Bindings),
		attribute.Bool("syringe.fast_path", stats.FastPath),
	)
	if stats.Mismatches > 0 {
		span.AddEvent("merge mismatch", trace.WithAttributes(
			attribute.Int("syringe.mismatches", stats.Mismatches),
		))
	}
	if stats.Collisions > 0 {
		span.AddEvent("key collision", trace.WithAttributes(
			attribute.Int("syringe.collisions", stats.Collisions),
		))
	}
	span.SetStatus(codes.Ok, "")
	return children, stats
}

// Render runs r.RenderToWriter inside a "syringe.render" span.
func (t *Tracing) Render(ctx context.Context, r *render.Renderer, w io.Writer, node *vdom.VNode) error {
	_, span := t.tracer.Start(ctx, "syringe.render",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("syringe.node.kind", wrapperKind(node))),
	)
	defer span.End()

	if err := r.RenderToWriter(w, node); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func wrapperKind(node *vdom.VNode) string {
	if node == nil {
		return "nil"
	}
	return node.Kind.String()
}

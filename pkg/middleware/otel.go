package middleware

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/waypoint/pkg/pipeline"
)

// Default tracer name for waypoint pipelines.
const defaultTracerName = "waypoint"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "waypoint").
	TracerName string

	// TracerProvider supplies the tracer. If nil, the global provider is used.
	TracerProvider trace.TracerProvider

	// SpanName names the span (default: "waypoint.navigate").
	SpanName string

	// Filter determines which navigations to trace.
	// Return true to trace, false to skip.
	// If nil, all navigations are traced.
	Filter func(s pipeline.State) bool

	// AttributeExtractor extracts custom attributes from the entering state.
	AttributeExtractor func(s pipeline.State) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
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

// WithSpanName sets the span name.
func WithSpanName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.SpanName = name
	}
}

// WithNavigationFilter sets a filter function for navigations.
func WithNavigationFilter(filter func(s pipeline.State) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(s pipeline.State) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
		SpanName:   "waypoint.navigate",
	}
}

// Tracing traces the pipelines it wraps with OpenTelemetry.
type Tracing struct {
	config OTelConfig
	tracer trace.Tracer
}

// NewTracing creates the tracing middleware factory.
//
// Each wrapped resolution gets a span that:
//   - Carries the path being resolved
//   - Is stored in the state's context, so loaders using State.Context
//     inherit it
//   - Records the outcome, matched route count and redirect target
//   - Records errors and sets the span status
//
// Example:
//
//	tracing := middleware.NewTracing(middleware.WithTracerName("my-app"))
//	r := pipeline.New(tracing.Wrap(router.Routes(routes...)))
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in your main():
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func NewTracing(opts ...OTelOption) *Tracing {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Tracing{
		config: config,
		tracer: tp.Tracer(config.TracerName),
	}
}

// Wrap traces the pipeline composed from mws.
func (t *Tracing) Wrap(mws ...pipeline.Middleware) pipeline.Middleware {
	return observe(mws, func(s pipeline.State) (pipeline.State, func(error, pipeline.State)) {
		if t.config.Filter != nil && !t.config.Filter(s) {
			return s, func(error, pipeline.State) {}
		}

		attrs := []attribute.KeyValue{
			attribute.String("waypoint.path", s.Path),
		}
		if s.Pathname != "" {
			attrs = append(attrs, attribute.String("waypoint.pathname", s.Pathname))
		}
		if t.config.AttributeExtractor != nil {
			attrs = append(attrs, t.config.AttributeExtractor(s)...)
		}

		ctx, span := t.tracer.Start(
			s.Context(),
			t.config.SpanName,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)

		return s.WithContext(ctx), func(err error, resolved pipeline.State) {
			defer span.End()

			span.SetAttributes(
				attribute.String("waypoint.outcome", pipeline.Classify(err, resolved).String()),
				attribute.Int("waypoint.route_count", len(resolved.Routes)),
			)
			if resolved.Redirect != "" {
				span.SetAttributes(attribute.String("waypoint.redirect", resolved.Redirect))
			}

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return
			}
			span.SetStatus(codes.Ok, "")
		}
	})
}

// SpanFromState retrieves the current trace span from the state's context.
// It returns a non-recording span when none is active.
//
// Example:
//
//	onEnter := func(next pipeline.Sink) pipeline.Sink {
//	    return pipeline.SinkFunc(func(err error, s pipeline.State) {
//	        middleware.SpanFromState(s).AddEvent("auth.check")
//	        next.Resolve(err, s)
//	    })
//	}
func SpanFromState(s pipeline.State) trace.Span {
	return trace.SpanFromContext(s.Context())
}

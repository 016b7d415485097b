package middleware

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/waypoint/pkg/pipeline"
	"github.com/vango-dev/waypoint/pkg/router"
)

func newRecorder() (*tracetest.SpanRecorder, trace.TracerProvider) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return recorder, tp
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingRecordsSpan(t *testing.T) {
	recorder, tp := newRecorder()
	tracing := NewTracing(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(pipeline.State) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)

	var inside trace.SpanContext
	tree := &router.Route{Path: "/", ChildRoutes: []*router.Route{
		{Path: "users/:id", GetComponent: func(s pipeline.State, cb func(error, any)) {
			inside = SpanFromState(s).SpanContext()
			cb(nil, "user")
		}},
	}}

	pipeline.New(tracing.Wrap(router.Routes(tree))).Navigate("/users/1", nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	span := spans[0]

	if span.Name() != "waypoint.navigate" {
		t.Errorf("span name = %q", span.Name())
	}
	if span.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", span.Status().Code)
	}
	if v, ok := spanAttr(span, "waypoint.path"); !ok || v.AsString() != "/users/1" {
		t.Errorf("waypoint.path = %v", v.AsString())
	}
	if v, ok := spanAttr(span, "waypoint.outcome"); !ok || v.AsString() != "done" {
		t.Errorf("waypoint.outcome = %v", v.AsString())
	}
	if v, ok := spanAttr(span, "waypoint.route_count"); !ok || v.AsInt64() != 2 {
		t.Errorf("waypoint.route_count = %v", v.AsInt64())
	}
	if _, ok := spanAttr(span, "test.attr"); !ok {
		t.Error("custom attribute missing")
	}
	if inside.SpanID() != span.SpanContext().SpanID() {
		t.Error("loader did not see the navigation span")
	}
}

func TestTracingRecordsErrorsAndRedirects(t *testing.T) {
	recorder, tp := newRecorder()
	tracing := NewTracing(WithTracerProvider(tp), WithSpanName("resolve"))
	r := pipeline.New(tracing.Wrap(router.Routes(testRoutes())))

	r.Navigate("/broken", nil)
	r.Navigate("/old", nil)

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}

	failed := spans[0]
	if failed.Name() != "resolve" {
		t.Errorf("span name = %q, want resolve", failed.Name())
	}
	if failed.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", failed.Status().Code)
	}
	if len(failed.Events()) == 0 {
		t.Error("error not recorded on span")
	}

	redirected := spans[1]
	if v, ok := spanAttr(redirected, "waypoint.redirect"); !ok || v.AsString() != "/new" {
		t.Errorf("waypoint.redirect = %v", v.AsString())
	}
}

func TestTracingFilter(t *testing.T) {
	recorder, tp := newRecorder()
	tracing := NewTracing(
		WithTracerProvider(tp),
		WithNavigationFilter(func(s pipeline.State) bool { return s.Pathname != "/healthz" }),
	)
	r := pipeline.New(tracing.Wrap(router.Routes(testRoutes())))

	r.Navigate("/healthz", nil)
	if n := len(recorder.Ended()); n != 0 {
		t.Errorf("ended spans = %d, want 0", n)
	}

	r.Navigate("/users/1", nil)
	if n := len(recorder.Ended()); n != 1 {
		t.Errorf("ended spans = %d, want 1", n)
	}
}

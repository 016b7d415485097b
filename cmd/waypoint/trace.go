package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// spanPrinter is a span exporter writing one line per span.
type spanPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func newSpanPrinter(w io.Writer) *spanPrinter {
	return &spanPrinter{w: w}
}

func (p *spanPrinter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, span := range spans {
		var b strings.Builder
		fmt.Fprintf(&b, "span %s %s status=%s",
			span.Name(),
			span.EndTime().Sub(span.StartTime()).Round(time.Microsecond),
			span.Status().Code,
		)
		for _, kv := range span.Attributes() {
			fmt.Fprintf(&b, " %s=%s", kv.Key, kv.Value.Emit())
		}
		b.WriteString("\n")
		if _, err := io.WriteString(p.w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func (p *spanPrinter) Shutdown(context.Context) error {
	return nil
}

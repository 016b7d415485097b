package middleware

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/waypoint/pkg/pipeline"
	"github.com/vango-dev/waypoint/pkg/router"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := pipeline.New(Logging(logger, router.Routes(testRoutes())))

	tests := []struct {
		path string
		want []string
	}{
		{"/users/1", []string{"level=DEBUG", `msg="navigation resolved"`, "outcome=done", "routes=2"}},
		{"/old", []string{`msg="navigation redirected"`, "redirect=/new"}},
		{"/broken", []string{"level=WARN", `msg="navigation failed"`, "error_type=component"}},
	}

	for _, tt := range tests {
		buf.Reset()
		r.Navigate(tt.path, nil)
		out := buf.String()
		for _, want := range tt.want {
			if !strings.Contains(out, want) {
				t.Errorf("%s: log %q missing %q", tt.path, out, want)
			}
		}
	}
}

func TestLoggingDefaultLogger(t *testing.T) {
	called := false
	mw := Logging(nil, func(next pipeline.Sink) pipeline.Sink {
		return pipeline.SinkFunc(func(err error, s pipeline.State) {
			called = true
			next.Resolve(err, s)
		})
	})

	mw(pipeline.Discard).Resolve(nil, pipeline.State{Path: "/"})
	if !called {
		t.Error("wrapped middleware not run")
	}
}

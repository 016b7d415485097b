package middleware

import (
	"context"
	"errors"
	"sync"

	"github.com/vango-dev/waypoint/pkg/pipeline"
	"github.com/vango-dev/waypoint/pkg/routepath"
	"github.com/vango-dev/waypoint/pkg/router"
)

// observe wraps mws so that start runs when a result enters and the function
// it returns runs once when the wrapped pipeline resolves. Incoming errors
// pass through uninstrumented.
func observe(mws []pipeline.Middleware, start func(s pipeline.State) (pipeline.State, func(err error, s pipeline.State))) pipeline.Middleware {
	wrapped := pipeline.Compose(mws...)

	return func(next pipeline.Sink) pipeline.Sink {
		return pipeline.SinkFunc(func(err error, s pipeline.State) {
			if err != nil {
				wrapped(next).Resolve(err, s)
				return
			}

			s, finish := start(s)
			var once sync.Once
			wrapped(pipeline.SinkFunc(func(err error, resolved pipeline.State) {
				once.Do(func() { finish(err, resolved) })
				next.Resolve(err, resolved)
			})).Resolve(nil, s)
		})
	}
}

// categorizeError returns a low-cardinality label for err.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, pipeline.ErrMissingLocation),
		errors.Is(err, routepath.ErrBackslashInPath),
		errors.Is(err, routepath.ErrNullByteInPath),
		errors.Is(err, routepath.ErrInvalidPercentEscape),
		errors.Is(err, routepath.ErrPathEscapesRoot):
		return "invalid_path"
	case errors.Is(err, routepath.ErrMalformedPattern):
		return "malformed_pattern"
	case errors.Is(err, routepath.ErrMissingParam),
		errors.Is(err, router.ErrRedirect):
		return "redirect"
	case errors.Is(err, router.ErrChildRoutes):
		return "child_routes"
	case errors.Is(err, router.ErrComponent),
		errors.Is(err, router.ErrNilComponent):
		return "component"
	default:
		return "internal"
	}
}

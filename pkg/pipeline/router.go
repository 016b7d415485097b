package pipeline

import (
	"context"
	"log/slog"
)

// Router resolves navigations through a fixed middleware pipeline.
type Router struct {
	middleware Middleware
	logger     *slog.Logger
}

// New creates a router running ParsePath, then middlewares in order, then
// the listener passed to each navigation.
//
// Example:
//
//	r := pipeline.New(
//	    pipeline.EnsureMostRecent(router.Nested(routes...)),
//	    router.RunEnterHooks,
//	    router.GetComponents,
//	)
//
//	r.Navigate("/post/123", pipeline.Listeners{
//	    Done:     func(err error, s pipeline.State) { render(s.Components) },
//	    Redirect: func(err error, s pipeline.State) { r.Navigate(s.Redirect, nil) },
//	})
func New(middlewares ...Middleware) *Router {
	return &Router{
		middleware: Compose(middlewares...),
		logger:     slog.Default(),
	}
}

// WithLogger sets the logger used for navigation tracing.
// If nil, slog.Default() is used.
func (r *Router) WithLogger(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	r.logger = logger
	return r
}

// Navigate resolves path, a combined pathname[?search][#hash].
// A nil sink discards the result.
func (r *Router) Navigate(path string, sink Sink) {
	r.NavigateState(State{Path: path}, sink)
}

// NavigateContext is like Navigate but carries ctx on the state for loaders
// and tracing.
func (r *Router) NavigateContext(ctx context.Context, path string, sink Sink) {
	r.NavigateState(State{Path: path}.WithContext(ctx), sink)
}

// NavigateState resolves a state populated with either Path or Pathname
// (plus optional Search and Hash).
func (r *Router) NavigateState(initial State, sink Sink) {
	r.logger.Debug("navigation started",
		"path", initial.Path,
		"pathname", initial.Pathname,
	)

	Compose(ParsePath, r.middleware, Listen(sink))(Discard).Resolve(nil, initial)
}

// Resolve navigates and blocks until the first terminal result reaches the
// listener or ctx is done. Results dropped inside the pipeline (for example
// by EnsureMostRecent) leave Resolve waiting for ctx. A result delivered
// synchronously is returned even when ctx has already expired.
func (r *Router) Resolve(ctx context.Context, path string) (State, error) {
	type result struct {
		s   State
		err error
	}

	ch := make(chan result, 1)
	r.NavigateContext(ctx, path, SinkFunc(func(err error, s State) {
		select {
		case ch <- result{s: s, err: err}:
		default:
		}
	}))

	select {
	case res := <-ch:
		return res.s, res.err
	default:
	}

	select {
	case res := <-ch:
		return res.s, res.err
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

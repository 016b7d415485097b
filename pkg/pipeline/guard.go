package pipeline

import "go.uber.org/atomic"

// EnsureMostRecent wraps middlewares so that only the navigation started
// most recently through this guard may deliver its result.
//
// Every non-error invocation advances the guard's epoch and remembers the
// value it started with. When the wrapped pipeline eventually resolves, the
// result is forwarded only if no newer invocation has started since and the
// resolved state still has a Path. Stale results are dropped; the work that
// produced them is not cancelled.
//
// An incoming error is forwarded immediately without touching the epoch.
func EnsureMostRecent(middlewares ...Middleware) Middleware {
	wrapped := Compose(middlewares...)
	var epoch atomic.Uint64

	return func(next Sink) Sink {
		return SinkFunc(func(err error, s State) {
			if err != nil {
				next.Resolve(err, s)
				return
			}

			started := epoch.Inc()
			wrapped(SinkFunc(func(err error, resolved State) {
				if resolved.Path == "" || epoch.Load() != started {
					return
				}
				next.Resolve(err, resolved)
			})).Resolve(nil, s)
		})
	}
}

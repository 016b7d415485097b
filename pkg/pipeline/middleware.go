package pipeline

// Sink receives the result of a pipeline step. A middleware calls the sink
// it was given at most once per decision it reaches, either synchronously or
// later from a loader callback.
type Sink interface {
	Resolve(err error, s State)
}

// SinkFunc is a function adapter for Sink.
type SinkFunc func(err error, s State)

// Resolve implements Sink.
func (f SinkFunc) Resolve(err error, s State) {
	f(err, s)
}

// Middleware wraps the downstream sink into the sink for its own step.
type Middleware func(next Sink) Sink

// Discard is a sink that drops everything it receives.
var Discard Sink = SinkFunc(func(error, State) {})

// Compose chains middlewares right to left: Compose(a, b)(next) is
// a(b(next)), so a sees each result first. Compose() is the identity.
func Compose(mws ...Middleware) Middleware {
	return func(next Sink) Sink {
		// Build chain from end to start
		sink := next
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] == nil {
				continue
			}
			sink = mws[i](sink)
		}
		return sink
	}
}

// Handlers selects a middleware per outcome. A nil entry passes that
// outcome through unchanged.
type Handlers struct {
	Next     Middleware
	Done     Middleware
	Redirect Middleware
	Error    Middleware
}

func (h Handlers) forOutcome(o Outcome) Middleware {
	switch o {
	case OutcomeError:
		return h.Error
	case OutcomeRedirect:
		return h.Redirect
	case OutcomeDone:
		return h.Done
	case OutcomeNext:
		return h.Next
	}
	return nil
}

// Handle builds a middleware that classifies each incoming result and runs
// only the handler registered for its outcome.
func Handle(h Handlers) Middleware {
	return func(next Sink) Sink {
		return SinkFunc(func(err error, s State) {
			handler := h.forOutcome(Classify(err, s))
			if handler == nil {
				next.Resolve(err, s)
				return
			}
			handler(next).Resolve(err, s)
		})
	}
}

// Listen builds the terminal middleware of a pipeline: it hands every result
// to sink and never forwards.
func Listen(sink Sink) Middleware {
	if sink == nil {
		sink = Discard
	}
	return func(Sink) Sink {
		return sink
	}
}

// Listeners is a sink that calls only the listener for the outcome it
// receives. Missing listeners silently drop their outcome.
type Listeners struct {
	Next     SinkFunc
	Done     SinkFunc
	Redirect SinkFunc
	Error    SinkFunc
}

// Resolve implements Sink.
func (l Listeners) Resolve(err error, s State) {
	Handle(Handlers{
		Next:     terminal(l.Next),
		Done:     terminal(l.Done),
		Redirect: terminal(l.Redirect),
		Error:    terminal(l.Error),
	})(Discard).Resolve(err, s)
}

func terminal(fn SinkFunc) Middleware {
	if fn == nil {
		return Listen(Discard)
	}
	return Listen(fn)
}

// Redirect marks the state as redirecting to path. It acts on next and done
// results and keeps every other field.
func Redirect(path string) Middleware {
	mark := func(next Sink) Sink {
		return SinkFunc(func(_ error, s State) {
			s.Redirect = path
			next.Resolve(nil, s)
		})
	}
	return Handle(Handlers{Next: mark, Done: mark})
}

// Done marks a next result as resolved.
var Done Middleware = Handle(Handlers{
	Next: func(next Sink) Sink {
		return SinkFunc(func(_ error, s State) {
			s.Done = true
			next.Resolve(nil, s)
		})
	},
})

// MapState replaces a next result with fn(state).
func MapState(fn func(State) State) Middleware {
	return Handle(Handlers{
		Next: func(next Sink) Sink {
			return SinkFunc(func(_ error, s State) {
				next.Resolve(nil, fn(s))
			})
		},
	})
}

// Skip bypasses mw for results where condition holds. Errors always reach mw.
func Skip(condition func(State) bool, mw Middleware) Middleware {
	return func(next Sink) Sink {
		wrapped := mw(next)
		return SinkFunc(func(err error, s State) {
			if err == nil && condition(s) {
				next.Resolve(err, s)
				return
			}
			wrapped.Resolve(err, s)
		})
	}
}

// Only runs mw only for results where condition holds.
func Only(condition func(State) bool, mw Middleware) Middleware {
	return Skip(func(s State) bool { return !condition(s) }, mw)
}

// Package pipeline implements the continuation-passing middleware engine
// that drives a navigation.
//
// A Middleware receives the Sink for the next step and returns the Sink for
// its own step. Each step inspects an (error, State) pair and decides if and
// when to pass a result on: synchronously, later from a loader callback, or
// not at all.
//
// # Outcomes
//
// Every result is classified into exactly one Outcome, by priority:
//
//	error     the error is non-nil
//	redirect  State.Redirect is set
//	done      State.Done is set
//	next      otherwise
//
// Handle runs the handler registered for the outcome and passes every other
// outcome through, which is how most steps are written:
//
//	var Done = pipeline.Handle(pipeline.Handlers{
//	    Next: func(next pipeline.Sink) pipeline.Sink {
//	        return pipeline.SinkFunc(func(_ error, s pipeline.State) {
//	            s.Done = true
//	            next.Resolve(nil, s)
//	        })
//	    },
//	})
//
// # Routers
//
// New composes ParsePath, the given middlewares and a terminal listener.
// Listeners calls a function per outcome; a SinkFunc receives all of them.
//
// # Concurrency
//
// A navigation has a single logical thread of control. Loaders may call
// back from other goroutines; States are copied on write so branches never
// share mutable data. EnsureMostRecent drops results of navigations that
// were superseded while they were in flight.
package pipeline

package router

import (
	"fmt"
	"sync"

	"github.com/vango-dev/waypoint/pkg/pipeline"
)

// GetComponents resolves the view artifact of every matched route.
//
// It acts on done results only. Each route contributes its Component, or
// calls its GetComponent loader; routes declaring neither are skipped. All
// loaders are started at once and may complete in any order, but the
// resulting Components keep route order. The first loader error aborts the
// step and later completions are ignored.
var GetComponents Middleware = pipeline.Handle(pipeline.Handlers{
	Done: func(next Sink) Sink {
		return pipeline.SinkFunc(func(_ error, s State) {
			if len(s.Routes) == 0 {
				next.Resolve(nil, s)
				return
			}
			newComponentJoin(next, s).start()
		})
	},
})

// componentJoin collects loader results for one done state.
type componentJoin struct {
	next  Sink
	state State

	mu        sync.Mutex
	results   []ResolvedComponent
	present   []bool
	remaining int
	finished  bool
}

func newComponentJoin(next Sink, s State) *componentJoin {
	return &componentJoin{
		next:      next,
		state:     s,
		results:   make([]ResolvedComponent, len(s.Routes)),
		present:   make([]bool, len(s.Routes)),
		remaining: len(s.Routes),
	}
}

func (j *componentJoin) start() {
	for i, route := range j.state.Routes {
		switch {
		case route.Component != nil:
			j.receive(i, route.Component, true)

		case route.GetComponent != nil:
			var once sync.Once
			route.GetComponent(j.state, func(err error, component any) {
				once.Do(func() {
					switch {
					case err != nil:
						j.fail(fmt.Errorf("%w for %v: %w", ErrComponent, route, err))
					case component == nil:
						j.fail(fmt.Errorf("%w: %v", ErrNilComponent, route))
					default:
						j.receive(i, component, true)
					}
				})
			})

		default:
			j.receive(i, nil, false)
		}
	}
}

func (j *componentJoin) receive(i int, component any, present bool) {
	j.mu.Lock()
	if j.finished {
		j.mu.Unlock()
		return
	}
	j.results[i] = ResolvedComponent{Component: component, Route: j.state.Routes[i]}
	j.present[i] = present
	j.remaining--
	if j.remaining > 0 {
		j.mu.Unlock()
		return
	}
	j.finished = true
	components := make([]ResolvedComponent, 0, len(j.results))
	for k, rc := range j.results {
		if j.present[k] {
			components = append(components, rc)
		}
	}
	j.mu.Unlock()

	s := j.state
	s.Components = components
	j.next.Resolve(nil, s)
}

func (j *componentJoin) fail(err error) {
	j.mu.Lock()
	if j.finished {
		j.mu.Unlock()
		return
	}
	j.finished = true
	j.mu.Unlock()

	j.next.Resolve(err, j.state)
}

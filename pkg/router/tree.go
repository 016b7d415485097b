package router

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/vango-dev/waypoint/pkg/pipeline"
	"github.com/vango-dev/waypoint/pkg/routepath"
)

// Nested builds a middleware matching the state's pathname against a route
// tree, depth first with backtracking.
//
// Sibling routes are tried in order. A route whose pattern matches pushes a
// frame and then always tries its children, so the deepest full match on a
// branch wins. A branch that ends without a full match is popped again and
// the next sibling is tried. The first full match produces a done result
// carrying Routes and Params, or a redirect result when the matched route
// declares a Redirect target. When nothing matches, the state is passed on
// unchanged as a next result.
func Nested(routes ...*Route) Middleware {
	mws := make([]Middleware, 0, len(routes))
	for _, route := range routes {
		mws = append(mws, matchRoute(route))
	}
	return pipeline.Compose(mws...)
}

// matchRoute tries a single route and its descendants.
func matchRoute(route *Route) Middleware {
	return pipeline.Handle(pipeline.Handlers{
		Next: func(next Sink) Sink {
			return pipeline.SinkFunc(func(_ error, s State) {
				// Nested patterns match what the parent left over, unless
				// they are absolute.
				pathname := s.Pathname
				if top, ok := s.Top(); ok && !strings.HasPrefix(route.Path, "/") {
					pathname = top.RemainingPathname
				}

				// A route without a path matches without consuming anything.
				frame := MatchFrame{Route: route, RemainingPathname: pathname}

				if route.Path != "" {
					pattern, err := routepath.Compile(route.Path)
					if err != nil {
						next.Resolve(fmt.Errorf("%v: %w", route, err), s)
						return
					}
					m, ok := pattern.Match(pathname)
					if !ok {
						next.Resolve(nil, s)
						return
					}
					frame.RemainingPathname = m.RemainingPathname
					frame.ParamNames = m.ParamNames
					frame.ParamValues = m.ParamValues
				}

				base := len(s.Stack)
				matched := s.PushFrame(frame)
				if frame.FullyMatched() && route.IndexRoute != nil {
					matched = matched.PushFrame(MatchFrame{Route: route.IndexRoute})
				}

				pipeline.Compose(
					childRoutes(route),
					exitBranch(route, base),
				)(next).Resolve(nil, matched)
			})
		},
	})
}

// childRoutes tries the route's children, loading them first if needed.
func childRoutes(route *Route) Middleware {
	return pipeline.Handle(pipeline.Handlers{
		Next: func(next Sink) Sink {
			return pipeline.SinkFunc(func(_ error, s State) {
				switch {
				case route.ChildRoutes != nil:
					Nested(route.ChildRoutes...)(next).Resolve(nil, s)

				case route.GetChildRoutes != nil:
					var called atomic.Bool
					route.GetChildRoutes(s, func(err error, children []*Route) {
						if called.Swap(true) {
							return
						}
						if err != nil {
							next.Resolve(fmt.Errorf("%w for %v: %w", ErrChildRoutes, route, err), s)
							return
						}
						Nested(children...)(next).Resolve(nil, s)
					})

				default:
					next.Resolve(nil, s)
				}
			})
		},
	})
}

// exitBranch finishes trying route once its children have had their turn.
// base is the stack depth before route pushed its frame.
func exitBranch(route *Route, base int) Middleware {
	return pipeline.Handle(pipeline.Handlers{
		Next: func(next Sink) Sink {
			return pipeline.SinkFunc(func(_ error, s State) {
				// No full match on this branch: leave no trace of it.
				if len(s.Stack) <= base || !s.Stack[base].FullyMatched() {
					next.Resolve(nil, s.TruncateStack(base))
					return
				}

				routes := make([]*Route, 0, len(s.Stack))
				var names, values []string
				for _, frame := range s.Stack {
					routes = append(routes, frame.Route)
					names = append(names, frame.ParamNames...)
					values = append(values, frame.ParamValues...)
				}
				params := pipeline.BuildParams(names, values)

				resolved := s.TruncateStack(0)
				resolved.Routes = routes
				resolved.Params = params

				if route.Redirect != "" {
					target, err := redirectTarget(route, base, routes, params)
					if err != nil {
						next.Resolve(err, s)
						return
					}
					resolved.Redirect = target
					next.Resolve(nil, resolved)
					return
				}

				resolved.Done = true
				next.Resolve(nil, resolved)
			})
		},
	})
}

// redirectTarget resolves route's static redirect. index is the route's
// position in routes.
func redirectTarget(route *Route, index int, routes []*Route, params Params) (string, error) {
	pattern := route.Redirect
	if !strings.HasPrefix(pattern, "/") {
		pattern = parentPattern(routes, index-1) + pattern
	}

	target, err := routepath.Format(pattern, params)
	if err != nil {
		return "", fmt.Errorf("%w for %v: %w", ErrRedirect, route, err)
	}
	return target, nil
}

// parentPattern joins the patterns of routes[..from] back to the nearest
// absolute one. The result always ends with "/".
func parentPattern(routes []*Route, from int) string {
	var prefix string
	for i := from; i >= 0; i-- {
		pattern := routes[i].Path
		prefix = strings.TrimRight(pattern, "/") + "/" + prefix
		if strings.HasPrefix(pattern, "/") {
			break
		}
	}
	return "/" + prefix
}

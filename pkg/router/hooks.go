package router

import "github.com/vango-dev/waypoint/pkg/pipeline"

// RunHooks runs the hook registered under name on every matched route, in
// route order. It acts on done results only, and each hook only sees done
// results: once a hook redirects, errors, or unmarks the state, the hooks
// after it are skipped.
func RunHooks(name string) Middleware {
	return pipeline.Handle(pipeline.Handlers{
		Done: func(next Sink) Sink {
			return pipeline.SinkFunc(func(err error, s State) {
				var hooks []Middleware
				for _, route := range s.Routes {
					if hook := route.Hook(name); hook != nil {
						hooks = append(hooks, pipeline.Handle(pipeline.Handlers{Done: hook}))
					}
				}
				pipeline.Compose(hooks...)(next).Resolve(err, s)
			})
		},
	})
}

// RunEnterHooks runs every matched route's OnEnter hook.
var RunEnterHooks = RunHooks(pipeline.HookEnter)

// Routes is the standard route resolution pipeline: match, run enter hooks,
// then resolve components.
func Routes(routes ...*Route) Middleware {
	return pipeline.Compose(
		Nested(routes...),
		RunEnterHooks,
		GetComponents,
	)
}

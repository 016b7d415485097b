package pipeline

import "fmt"

// HookEnter is the name of the hook run when a route is entered.
const HookEnter = "onEnter"

// Route is a node of the route tree. Routes are supplied by the caller and
// are read-only while a navigation resolves.
type Route struct {
	// ID is an opaque caller-supplied identifier.
	ID any

	// Path is the pattern matched by this route (see routepath.Compile).
	// A route without a path matches without consuming anything.
	Path string

	// ChildRoutes are tried in order after this route matched.
	ChildRoutes []*Route

	// GetChildRoutes loads child routes asynchronously. It is consulted only
	// when ChildRoutes is nil and must call cb exactly once.
	GetChildRoutes func(s State, cb func(err error, routes []*Route))

	// IndexRoute is appended to the match when this route fully matches.
	IndexRoute *Route

	// Component is the view artifact for this route.
	Component any

	// GetComponent loads the view artifact asynchronously. It is consulted only
	// when Component is nil and must call cb exactly once.
	GetComponent func(s State, cb func(err error, component any))

	// OnEnter runs after a full match, in route order.
	OnEnter Middleware

	// Hooks holds additional named hooks, see RunHooks.
	Hooks map[string]Middleware

	// Redirect is a static redirect target. Targets starting with "/" are
	// absolute; others are resolved against the ancestors' patterns.
	Redirect string
}

// Hook returns the hook registered under name, or nil.
func (r *Route) Hook(name string) Middleware {
	if name == HookEnter && r.OnEnter != nil {
		return r.OnEnter
	}
	return r.Hooks[name]
}

// String identifies the route in error messages.
func (r *Route) String() string {
	if r == nil {
		return "<nil route>"
	}
	if r.ID != nil {
		return fmt.Sprintf("route %v (%q)", r.ID, r.Path)
	}
	return fmt.Sprintf("route %q", r.Path)
}

// MatchFrame is one route's contribution to the match stack.
type MatchFrame struct {
	Route *Route

	// RemainingPathname is what is left of the pathname after this route.
	// Empty means the route fully matched.
	RemainingPathname string

	// ParamNames and ParamValues are parallel.
	ParamNames  []string
	ParamValues []string
}

// FullyMatched reports whether the frame consumed the rest of the pathname.
func (f MatchFrame) FullyMatched() bool {
	return f.RemainingPathname == ""
}

// ResolvedComponent is a view artifact together with the route it came from.
type ResolvedComponent struct {
	Component any
	Route     *Route
}

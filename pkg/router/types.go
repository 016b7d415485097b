package router

import (
	"errors"

	"github.com/vango-dev/waypoint/pkg/pipeline"
)

type (
	// Route is a node of the route tree.
	Route = pipeline.Route

	// MatchFrame is one route's contribution to the match stack.
	MatchFrame = pipeline.MatchFrame

	// Params are the parameters collected by a full match.
	Params = pipeline.Params

	// ResolvedComponent is a view artifact together with its route.
	ResolvedComponent = pipeline.ResolvedComponent

	// State is the navigation state threaded through the pipeline.
	State = pipeline.State

	// Middleware is a pipeline step.
	Middleware = pipeline.Middleware

	// Sink receives the result of a pipeline step.
	Sink = pipeline.Sink
)

// Errors reported through the pipeline's error slot.
var (
	// ErrChildRoutes wraps failures of a route's GetChildRoutes loader.
	ErrChildRoutes = errors.New("loading child routes failed")

	// ErrComponent wraps failures of a route's GetComponent loader.
	ErrComponent = errors.New("loading component failed")

	// ErrNilComponent is reported when GetComponent yields no component.
	ErrNilComponent = errors.New("component loader returned nil")

	// ErrRedirect wraps failures resolving a static redirect target.
	ErrRedirect = errors.New("resolving redirect failed")
)

// NewRedirect builds a route that redirects navigations matching from to
// the target to. Relative targets resolve against the enclosing routes.
func NewRedirect(from, to string) *Route {
	return &Route{Path: from, Redirect: to}
}

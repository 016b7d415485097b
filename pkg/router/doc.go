// Package router resolves navigations against a tree of nested routes.
//
// The package provides the route-specific steps of a navigation pipeline:
//   - Nested matches the pathname against a route tree with backtracking
//   - RunHooks and RunEnterHooks run per-route hooks after a match
//   - GetComponents resolves the view artifact of every matched route
//   - Routes composes the three in their usual order
//
// # Route Trees
//
// Routes are plain values:
//
//	routes := &router.Route{
//	    Path:      "/",
//	    Component: app,
//	    ChildRoutes: []*router.Route{
//	        {Path: "about", Component: about},
//	        {Path: "users/:id", Component: user},
//	        router.NewRedirect("profile/:id", "users/:id"),
//	    },
//	}
//
// Patterns are described in package routepath. Child patterns match what the
// parent left over, unless they start with "/". A route without a path
// always matches and consumes nothing, which makes it useful for grouping.
//
// Children can be loaded lazily through GetChildRoutes, and components
// through GetComponent. Both callbacks may be invoked from any goroutine.
//
// # Usage
//
//	r := pipeline.New(router.Routes(routes))
//	r.Navigate("/users/42", pipeline.Listeners{
//	    Done: func(_ error, s pipeline.State) {
//	        render(s.Components, s.Params)
//	    },
//	    Redirect: func(_ error, s pipeline.State) {
//	        r.Navigate(s.Redirect, listeners)
//	    },
//	})
//
// A navigation that matches nothing arrives as a next result with no Routes.
package router

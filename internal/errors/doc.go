// Package errors provides coded, actionable error messages for the waypoint
// command line tool.
//
// Library packages report plain sentinel errors. This package maps them to
// codes with a short message, an explanation and a documentation link, and
// renders them for the terminal or as JSON.
//
// # Error Codes
//
//   - W1xx: configuration (waypoint.json)
//   - W2xx: route files
//   - W3xx: navigation
//   - W4xx: command line usage
//
// # Usage
//
//	routes, err := routefile.Load(path, reg)
//	if err != nil {
//	    errors.PrintError(errors.FromRouteFile(path, err))
//	}
//
//	// Output:
//	// ERROR W202: Invalid route file
//	//
//	//   routes.yaml:3
//	//
//	//        1 │ routes:
//	//        2 │   - path: /
//	//   →    3 │     childRoutes: [
//	//
//	//   The route file could not be parsed. Check its syntax and field names.
//	//
//	//   Learn more: https://waypoint.dev/docs/errors/W202
package errors

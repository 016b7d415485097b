package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (W101-W119)
	// ============================================

	"W101": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "The configuration file given on the command line does not exist.",
		DocURL:   "https://waypoint.dev/docs/errors/W101",
	},
	"W102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "waypoint.json could not be parsed. Check that it is valid JSON.",
		DocURL:   "https://waypoint.dev/docs/errors/W102",
	},
	"W103": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "The log level must be one of debug, info, warn or error.",
		DocURL:   "https://waypoint.dev/docs/errors/W103",
	},
	"W104": {
		Category: CategoryConfig,
		Message:  "Incomplete manifest configuration",
		Detail:   "Loading child routes from S3 requires both a bucket and a region.",
		DocURL:   "https://waypoint.dev/docs/errors/W104",
	},
	"W105": {
		Category: CategoryConfig,
		Message:  "Invalid timeout",
		Detail:   "Timeouts must be positive Go durations such as 500ms or 10s.",
		DocURL:   "https://waypoint.dev/docs/errors/W105",
	},
	"W106": {
		Category: CategoryConfig,
		Message:  "Invalid redirect limit",
		Detail:   "navigation.maxRedirects cannot be negative. Zero follows no redirects.",
		DocURL:   "https://waypoint.dev/docs/errors/W106",
	},

	// ============================================
	// Route File Errors (W201-W219)
	// ============================================

	"W201": {
		Category: CategoryRoutes,
		Message:  "Route file not found",
		Detail:   "No route file was given and none is configured in waypoint.json.",
		DocURL:   "https://waypoint.dev/docs/errors/W201",
	},
	"W202": {
		Category: CategoryRoutes,
		Message:  "Invalid route file",
		Detail:   "The route file could not be parsed. Check its syntax and field names.",
		DocURL:   "https://waypoint.dev/docs/errors/W202",
	},
	"W203": {
		Category: CategoryRoutes,
		Message:  "Unknown component",
		Detail:   "A route names a component that is not registered.",
		DocURL:   "https://waypoint.dev/docs/errors/W203",
	},
	"W204": {
		Category: CategoryRoutes,
		Message:  "Unknown hook",
		Detail:   "A route names a hook that is not registered.",
		DocURL:   "https://waypoint.dev/docs/errors/W204",
	},
	"W205": {
		Category: CategoryRoutes,
		Message:  "Invalid route",
		Detail:   "A route combines fields that cannot be used together.",
		DocURL:   "https://waypoint.dev/docs/errors/W205",
	},
	"W206": {
		Category: CategoryRoutes,
		Message:  "Manifest loader not configured",
		Detail:   "A route uses childRoutesManifest but no manifest bucket is configured.",
		DocURL:   "https://waypoint.dev/docs/errors/W206",
	},

	// ============================================
	// Navigation Errors (W301-W319)
	// ============================================

	"W301": {
		Category: CategoryNavigation,
		Message:  "Missing location",
		Detail:   "A navigation needs either a path or a pathname.",
		DocURL:   "https://waypoint.dev/docs/errors/W301",
	},
	"W302": {
		Category: CategoryNavigation,
		Message:  "Invalid path",
		Detail:   "The path contains backslashes, null bytes, bad percent escapes, or escapes the root.",
		DocURL:   "https://waypoint.dev/docs/errors/W302",
	},
	"W303": {
		Category: CategoryNavigation,
		Message:  "Malformed route pattern",
		Detail:   "A route pattern has unbalanced parentheses or an empty parameter name.",
		DocURL:   "https://waypoint.dev/docs/errors/W303",
	},
	"W304": {
		Category: CategoryNavigation,
		Message:  "Loading child routes failed",
		Detail:   "A route's child loader reported an error.",
		DocURL:   "https://waypoint.dev/docs/errors/W304",
	},
	"W305": {
		Category: CategoryNavigation,
		Message:  "Resolving components failed",
		Detail:   "A route's component loader reported an error or returned no component.",
		DocURL:   "https://waypoint.dev/docs/errors/W305",
	},
	"W306": {
		Category: CategoryNavigation,
		Message:  "Redirect target could not be resolved",
		Detail:   "A redirect target uses a parameter the matched routes do not provide.",
		DocURL:   "https://waypoint.dev/docs/errors/W306",
	},
	"W307": {
		Category: CategoryNavigation,
		Message:  "Navigation timed out",
		Detail:   "The navigation did not resolve before the deadline. A loader may never have called back.",
		DocURL:   "https://waypoint.dev/docs/errors/W307",
	},
	"W308": {
		Category: CategoryNavigation,
		Message:  "No route matched",
		Detail:   "No route in the tree fully matches the path.",
		DocURL:   "https://waypoint.dev/docs/errors/W308",
	},
	"W309": {
		Category: CategoryNavigation,
		Message:  "Too many redirects",
		Detail:   "Following redirects did not reach a final route.",
		DocURL:   "https://waypoint.dev/docs/errors/W309",
	},
	"W310": {
		Category: CategoryNavigation,
		Message:  "Navigation failed",
		Detail:   "The navigation pipeline reported an error.",
		DocURL:   "https://waypoint.dev/docs/errors/W310",
	},

	// ============================================
	// CLI Errors (W401-W419)
	// ============================================

	"W401": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
		Detail:   "The command was called with missing or conflicting arguments.",
		DocURL:   "https://waypoint.dev/docs/errors/W401",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

package errors

import (
	"context"
	stderrors "errors"

	"github.com/vango-dev/waypoint/pkg/loader"
	"github.com/vango-dev/waypoint/pkg/pipeline"
	"github.com/vango-dev/waypoint/pkg/routefile"
	"github.com/vango-dev/waypoint/pkg/routepath"
	"github.com/vango-dev/waypoint/pkg/router"
)

// codeRule maps a sentinel error to a code. Rules are checked in order.
type codeRule struct {
	target error
	code   string
}

var routeFileRules = []codeRule{
	{routefile.ErrUnknownComponent, "W203"},
	{routefile.ErrUnknownHook, "W204"},
	{routefile.ErrInvalidNode, "W205"},
	{routefile.ErrNoChildLoader, "W206"},
}

var navigationRules = []codeRule{
	{context.DeadlineExceeded, "W307"},
	{pipeline.ErrMissingLocation, "W301"},
	{routepath.ErrBackslashInPath, "W302"},
	{routepath.ErrNullByteInPath, "W302"},
	{routepath.ErrInvalidPercentEscape, "W302"},
	{routepath.ErrPathEscapesRoot, "W302"},
	{routepath.ErrMalformedPattern, "W303"},
	{router.ErrChildRoutes, "W304"},
	{loader.ErrManifest, "W304"},
	{router.ErrComponent, "W305"},
	{router.ErrNilComponent, "W305"},
	{router.ErrRedirect, "W306"},
}

func match(err error, rules []codeRule) (string, bool) {
	for _, rule := range rules {
		if stderrors.Is(err, rule.target) {
			return rule.code, true
		}
	}
	return "", false
}

// FromRouteFile wraps an error from loading the route file at path.
func FromRouteFile(path string, err error) *WaypointError {
	if err == nil {
		return nil
	}
	if we, ok := err.(*WaypointError); ok {
		return we
	}
	if code, ok := match(err, routeFileRules); ok {
		return New(code).Wrap(err).WithLocation(path, 0, 0)
	}
	return New("W202").Wrap(err).WithLocationFromError(path, err)
}

// FromNavigation wraps an error delivered through a navigation's error slot.
func FromNavigation(err error) *WaypointError {
	if err == nil {
		return nil
	}
	if we, ok := err.(*WaypointError); ok {
		return we
	}
	if code, ok := match(err, navigationRules); ok {
		return New(code).Wrap(err)
	}
	return New("W310").Wrap(err)
}

package pipeline

import (
	"errors"
	"fmt"

	"github.com/vango-dev/waypoint/pkg/routepath"
)

// ErrMissingLocation is reported when a state carries neither a Path nor a
// Pathname.
var ErrMissingLocation = errors.New("state must have either Path or Pathname (with optional Search and Hash)")

// ParsePath fills in the location fields of a next result.
//
// With Path set, Pathname, Search and Hash are derived from it. Otherwise,
// with Pathname set, Path is rebuilt as Pathname+Search+Hash. A state with
// neither fails with ErrMissingLocation.
var ParsePath Middleware = Handle(Handlers{
	Next: func(next Sink) Sink {
		return SinkFunc(func(_ error, s State) {
			switch {
			case s.Path != "":
				loc := routepath.Split(s.Path)
				s.Pathname, s.Search, s.Hash = loc.Pathname, loc.Search, loc.Hash
				next.Resolve(nil, s)
			case s.Pathname != "":
				s.Path = routepath.Join(s.Location())
				next.Resolve(nil, s)
			default:
				next.Resolve(ErrMissingLocation, s)
			}
		})
	},
})

// Canonicalize normalizes the Pathname of a next result and rebuilds Path
// when it changed. Unsafe pathnames fail with the routepath error.
var Canonicalize Middleware = Handle(Handlers{
	Next: func(next Sink) Sink {
		return SinkFunc(func(_ error, s State) {
			pathname, changed, err := routepath.Canonicalize(s.Pathname)
			if err != nil {
				next.Resolve(fmt.Errorf("canonicalize %q: %w", s.Pathname, err), s)
				return
			}
			if changed {
				s.Pathname = pathname
				s.Path = routepath.Join(s.Location())
			}
			next.Resolve(nil, s)
		})
	},
})

package pipeline

import (
	"context"
	"maps"
	"slices"

	"github.com/vango-dev/waypoint/pkg/routepath"
)

// State is the evolving record of one navigation attempt.
//
// States are passed by value. Helpers that change a slice or map field
// return a new State holding a fresh copy, so a State handed to a
// middleware is never mutated by the steps after it.
type State struct {
	// Path is the combined pathname[?search][#hash].
	Path string

	Pathname string
	Search   string
	Hash     string

	// Stack holds the match frames of the branch currently being tried.
	Stack []MatchFrame

	// Routes and Params are set once a branch fully matched.
	Routes []*Route
	Params Params

	// Redirect, when non-empty, is the path the navigation should go to instead.
	Redirect string

	// Done marks a fully resolved state.
	Done bool

	// Components are the resolved view artifacts, aligned with Routes minus
	// routes that declare none.
	Components []ResolvedComponent

	values map[any]any
	ctx    context.Context
}

// Location returns the path components of the state.
func (s State) Location() routepath.Location {
	return routepath.Location{Pathname: s.Pathname, Search: s.Search, Hash: s.Hash}
}

// Context returns the state's context, or context.Background when none is set.
func (s State) Context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// WithContext returns a copy of the state carrying ctx.
func (s State) WithContext(ctx context.Context) State {
	s.ctx = ctx
	return s
}

// Value returns the user field stored under key.
func (s State) Value(key any) any {
	return s.values[key]
}

// WithValue returns a copy of the state with a user field set.
func (s State) WithValue(key, value any) State {
	values := make(map[any]any, len(s.values)+1)
	maps.Copy(values, s.values)
	values[key] = value
	s.values = values
	return s
}

// WithoutValue returns a copy of the state with a user field removed.
func (s State) WithoutValue(key any) State {
	if _, ok := s.values[key]; !ok {
		return s
	}
	values := maps.Clone(s.values)
	delete(values, key)
	s.values = values
	return s
}

// PushFrame returns a copy of the state with frames appended to its stack.
func (s State) PushFrame(frames ...MatchFrame) State {
	stack := make([]MatchFrame, len(s.Stack), len(s.Stack)+len(frames))
	copy(stack, s.Stack)
	s.Stack = append(stack, frames...)
	return s
}

// TruncateStack returns a copy of the state whose stack holds only its
// first n frames. A zero n clears the stack.
func (s State) TruncateStack(n int) State {
	if n <= 0 {
		s.Stack = nil
		return s
	}
	if n >= len(s.Stack) {
		return s
	}
	s.Stack = slices.Clone(s.Stack[:n])
	return s
}

// Top returns the last frame on the stack.
func (s State) Top() (MatchFrame, bool) {
	if len(s.Stack) == 0 {
		return MatchFrame{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

package router

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/waypoint/pkg/pipeline"
	"github.com/vango-dev/waypoint/pkg/routepath"
)

// capture records the last result it received.
type capture struct {
	mu    sync.Mutex
	calls int
	err   error
	state State
	done  chan struct{}
}

func newCapture() *capture {
	return &capture{done: make(chan struct{}, 16)}
}

func (c *capture) Resolve(err error, s State) {
	c.mu.Lock()
	c.calls++
	c.err = err
	c.state = s
	c.mu.Unlock()
	c.done <- struct{}{}
}

func (c *capture) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for result")
	}
}

func resolve(t *testing.T, mw Middleware, path string) *capture {
	t.Helper()
	c := newCapture()
	pipeline.New(mw).Navigate(path, c)
	c.wait(t)
	return c
}

func routeIDs(routes []*Route) []any {
	ids := make([]any, 0, len(routes))
	for _, r := range routes {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestNestedMatchesDeepestRoute(t *testing.T) {
	tree := &Route{ID: 1, Path: "/", ChildRoutes: []*Route{
		{ID: 2, Path: "post", ChildRoutes: []*Route{
			{ID: 3, Path: ":id"},
		}},
	}}

	c := resolve(t, Nested(tree), "/post/123")
	if c.err != nil {
		t.Fatalf("unexpected error: %v", c.err)
	}
	if !c.state.Done {
		t.Fatal("state not done")
	}
	if diff := cmp.Diff([]any{1, 2, 3}, routeIDs(c.state.Routes)); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Params{"id": {"123"}}, c.state.Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	if len(c.state.Stack) != 0 {
		t.Errorf("stack not cleared: %v", c.state.Stack)
	}
}

func TestNestedSiblingPrecedence(t *testing.T) {
	tree := &Route{ID: 1, Path: "/", ChildRoutes: []*Route{
		{ID: 2, Path: "post"},
		{ID: 3, Path: "post/:id"},
	}}

	c := resolve(t, Nested(tree), "/post/123")
	if diff := cmp.Diff([]any{1, 3}, routeIDs(c.state.Routes)); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
	if got := c.state.Params.Get("id"); got != "123" {
		t.Errorf("id = %q, want 123", got)
	}
}

func TestNestedFirstFullMatchWins(t *testing.T) {
	tree := &Route{ID: 1, Path: "/", ChildRoutes: []*Route{
		{ID: 2, Path: ":name"},
		{ID: 3, Path: "about"},
	}}

	c := resolve(t, Nested(tree), "/about")
	if diff := cmp.Diff([]any{1, 2}, routeIDs(c.state.Routes)); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedAbsoluteChild(t *testing.T) {
	tree := &Route{ID: 1, Path: "/users", ChildRoutes: []*Route{
		{ID: 2, Path: "/profile/:id"},
	}}

	c := resolve(t, Nested(tree), "/users")
	if diff := cmp.Diff([]any{1}, routeIDs(c.state.Routes)); diff != "" {
		t.Errorf("/users routes mismatch (-want +got):\n%s", diff)
	}

	// The parent does not match /profile/7, so its absolute child is never tried.
	c = resolve(t, Nested(tree), "/profile/7")
	if c.state.Done {
		t.Errorf("unexpected match: %v", routeIDs(c.state.Routes))
	}

	// Under a pathless parent the absolute child sees the full pathname.
	tree = &Route{ID: 1, Path: "/", ChildRoutes: []*Route{
		{ID: 2, Path: "users", ChildRoutes: []*Route{
			{ID: 3, Path: "/profile/:id"},
		}},
	}}
	c = resolve(t, Nested(tree), "/users/profile/7")
	if c.state.Done {
		t.Errorf("relative remainder matched absolute child: %v", routeIDs(c.state.Routes))
	}

	tree = &Route{ID: 1, Path: "/users", ChildRoutes: []*Route{
		{ID: 2, Path: "/users/:id"},
	}}
	c = resolve(t, Nested(tree), "/users/7")
	if diff := cmp.Diff([]any{1, 2}, routeIDs(c.state.Routes)); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
	if got := c.state.Params.Get("id"); got != "7" {
		t.Errorf("id = %q, want 7", got)
	}
}

func TestNestedPathlessRoutes(t *testing.T) {
	tree := &Route{ID: 1, Path: "/", ChildRoutes: []*Route{
		{ID: 2, ChildRoutes: []*Route{
			{ID: 3, Path: "a", ChildRoutes: []*Route{
				{ID: 4},
			}},
		}},
	}}

	c := resolve(t, Nested(tree), "/a")
	if diff := cmp.Diff([]any{1, 2, 3, 4}, routeIDs(c.state.Routes)); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedIndexRoute(t *testing.T) {
	tree := &Route{ID: 1, Path: "/", IndexRoute: &Route{ID: "index"}, ChildRoutes: []*Route{
		{ID: 2, Path: "about"},
	}}

	c := resolve(t, Nested(tree), "/")
	if diff := cmp.Diff([]any{1, "index"}, routeIDs(c.state.Routes)); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}

	c = resolve(t, Nested(tree), "/about")
	if diff := cmp.Diff([]any{1, 2}, routeIDs(c.state.Routes)); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedNoMatch(t *testing.T) {
	tree := &Route{ID: 1, Path: "/", ChildRoutes: []*Route{
		{ID: 2, Path: "post"},
	}}

	c := resolve(t, Nested(tree), "/nope")
	if c.err != nil {
		t.Fatalf("unexpected error: %v", c.err)
	}
	if got := pipeline.Classify(c.err, c.state); got != pipeline.OutcomeNext {
		t.Errorf("outcome = %v, want next", got)
	}
	if len(c.state.Stack) != 0 || c.state.Routes != nil {
		t.Errorf("failed branch left a trace: stack=%v routes=%v", c.state.Stack, c.state.Routes)
	}
}

func TestNestedBacktrackingKeepsParentMatch(t *testing.T) {
	// "post" partially matches and is popped again before "post/:id" runs.
	tree := &Route{ID: 1, Path: "/", ChildRoutes: []*Route{
		{ID: 2, Path: "post", ChildRoutes: []*Route{
			{ID: 3, Path: "edit"},
		}},
		{ID: 4, Path: "post/:id", ChildRoutes: []*Route{
			{ID: 5, Path: "never"},
		}},
	}}

	c := resolve(t, Nested(tree), "/post/7")
	if diff := cmp.Diff([]any{1, 4}, routeIDs(c.state.Routes)); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedRepeatedParams(t *testing.T) {
	tree := &Route{ID: 1, Path: "/:id", ChildRoutes: []*Route{
		{ID: 2, Path: ":id", ChildRoutes: []*Route{
			{ID: 3, Path: ":id"},
		}},
	}}

	c := resolve(t, Nested(tree), "/a/b/c")
	if diff := cmp.Diff(Params{"id": {"a", "b", "c"}}, c.state.Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedAsyncChildRoutes(t *testing.T) {
	calls := 0
	tree := &Route{ID: 1, Path: "/", GetChildRoutes: func(s State, cb func(error, []*Route)) {
		calls++
		go cb(nil, []*Route{
			{ID: 2, Path: "post/:id"},
		})
	}}

	c := resolve(t, Nested(tree), "/post/5")
	if diff := cmp.Diff([]any{1, 2}, routeIDs(c.state.Routes)); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
	if calls != 1 {
		t.Errorf("GetChildRoutes called %d times, want 1", calls)
	}

	// Nothing more may arrive.
	select {
	case <-c.done:
		t.Error("result delivered twice")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestNestedChildRoutesCallbackOnce(t *testing.T) {
	tree := &Route{ID: 1, Path: "/", GetChildRoutes: func(s State, cb func(error, []*Route)) {
		cb(nil, []*Route{{ID: 2, Path: "a"}})
		cb(nil, []*Route{{ID: 3, Path: "a"}})
	}}

	c := resolve(t, Nested(tree), "/a")
	if c.calls != 1 {
		t.Errorf("listener called %d times, want 1", c.calls)
	}
	if diff := cmp.Diff([]any{1, 2}, routeIDs(c.state.Routes)); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedChildRoutesErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	siblingTried := false
	tree := []*Route{
		{ID: 1, Path: "/", GetChildRoutes: func(s State, cb func(error, []*Route)) {
			cb(boom, nil)
		}},
		{ID: 2, Path: "/", GetChildRoutes: func(s State, cb func(error, []*Route)) {
			siblingTried = true
			cb(nil, nil)
		}},
	}

	c := resolve(t, Nested(tree...), "/a")
	if !errors.Is(c.err, boom) || !errors.Is(c.err, ErrChildRoutes) {
		t.Errorf("error = %v, want ErrChildRoutes wrapping boom", c.err)
	}
	if siblingTried {
		t.Error("sibling tried after loader error")
	}
}

func TestNestedMalformedPattern(t *testing.T) {
	c := resolve(t, Nested(&Route{ID: 1, Path: "/a(b"}), "/a")
	if !errors.Is(c.err, routepath.ErrMalformedPattern) {
		t.Errorf("error = %v, want ErrMalformedPattern", c.err)
	}
}

func TestNestedRedirect(t *testing.T) {
	tests := []struct {
		name string
		tree *Route
		path string
		want string
	}{
		{
			name: "relative to ancestors",
			tree: &Route{Path: "/post", ChildRoutes: []*Route{
				NewRedirect(":id", "foo/:id/bar"),
			}},
			path: "/post/123",
			want: "/post/foo/123/bar",
		},
		{
			name: "relative under root",
			tree: &Route{Path: "/", ChildRoutes: []*Route{
				{Path: "post", ChildRoutes: []*Route{
					NewRedirect("old/:id", ":id"),
				}},
			}},
			path: "/post/old/9",
			want: "/post/9",
		},
		{
			name: "absolute",
			tree: &Route{Path: "/", ChildRoutes: []*Route{
				NewRedirect("users/:id", "/profile/:id"),
			}},
			path: "/users/42",
			want: "/profile/42",
		},
		{
			name: "stops at absolute ancestor",
			tree: &Route{Path: "/", ChildRoutes: []*Route{
				{Path: "/app", ChildRoutes: []*Route{
					NewRedirect("home", "dashboard"),
				}},
			}},
			path: "/app/home",
			want: "/app/dashboard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := resolve(t, Nested(tt.tree), tt.path)
			if c.err != nil {
				t.Fatalf("unexpected error: %v", c.err)
			}
			if got := pipeline.Classify(c.err, c.state); got != pipeline.OutcomeRedirect {
				t.Fatalf("outcome = %v, want redirect", got)
			}
			if c.state.Redirect != tt.want {
				t.Errorf("Redirect = %q, want %q", c.state.Redirect, tt.want)
			}
		})
	}
}

func TestNestedRedirectMissingParam(t *testing.T) {
	tree := &Route{Path: "/", ChildRoutes: []*Route{
		NewRedirect("old", "/new/:id"),
	}}

	c := resolve(t, Nested(tree), "/old")
	if !errors.Is(c.err, ErrRedirect) || !errors.Is(c.err, routepath.ErrMissingParam) {
		t.Errorf("error = %v, want ErrRedirect wrapping ErrMissingParam", c.err)
	}
}

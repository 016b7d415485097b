package router

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/waypoint/pkg/pipeline"
)

// record appends id to log and passes the result on.
func record(log *[]string, id string) Middleware {
	return func(next Sink) Sink {
		return pipeline.SinkFunc(func(err error, s State) {
			*log = append(*log, id)
			next.Resolve(err, s)
		})
	}
}

func TestRunHooksInRouteOrder(t *testing.T) {
	var log []string
	routes := []*Route{
		{Hooks: map[string]Middleware{"onLeave": record(&log, "a")}},
		{},
		{Hooks: map[string]Middleware{"onLeave": record(&log, "c")}, OnEnter: record(&log, "enter")},
	}

	c := newCapture()
	RunHooks("onLeave")(c).Resolve(nil, State{Path: "/", Done: true, Routes: routes})
	c.wait(t)

	if diff := cmp.Diff([]string{"a", "c"}, log); diff != "" {
		t.Errorf("hooks mismatch (-want +got):\n%s", diff)
	}
	if !c.state.Done {
		t.Error("state no longer done")
	}
}

func TestRunEnterHooksRedirectShortCircuits(t *testing.T) {
	var log []string
	loaded := false
	tree := &Route{ID: 1, Path: "/", OnEnter: record(&log, "root"), ChildRoutes: []*Route{
		{
			ID:      2,
			Path:    "admin",
			OnEnter: pipeline.Compose(record(&log, "admin"), pipeline.Redirect("/login")),
			ChildRoutes: []*Route{
				{
					ID:      3,
					Path:    "panel",
					OnEnter: record(&log, "panel"),
					GetComponent: func(s State, cb func(error, any)) {
						loaded = true
						cb(nil, "panel")
					},
				},
			},
		},
	}}

	c := resolve(t, Routes(tree), "/admin/panel")
	if got := pipeline.Classify(c.err, c.state); got != pipeline.OutcomeRedirect {
		t.Fatalf("outcome = %v, want redirect", got)
	}
	if c.state.Redirect != "/login" {
		t.Errorf("Redirect = %q, want /login", c.state.Redirect)
	}
	if diff := cmp.Diff([]string{"root", "admin"}, log); diff != "" {
		t.Errorf("hooks mismatch (-want +got):\n%s", diff)
	}
	if loaded {
		t.Error("components resolved after a redirecting hook")
	}
}

func TestRunEnterHooksErrorShortCircuits(t *testing.T) {
	var log []string
	boom := errors.New("denied")
	fail := func(next Sink) Sink {
		return pipeline.SinkFunc(func(_ error, s State) {
			next.Resolve(boom, s)
		})
	}
	routes := []*Route{
		{OnEnter: fail},
		{OnEnter: record(&log, "later")},
	}

	c := newCapture()
	RunEnterHooks(c).Resolve(nil, State{Path: "/", Done: true, Routes: routes})
	c.wait(t)

	if !errors.Is(c.err, boom) {
		t.Errorf("error = %v, want %v", c.err, boom)
	}
	if len(log) != 0 {
		t.Errorf("later hooks ran: %v", log)
	}
}

func TestRunHooksIgnoresUnresolved(t *testing.T) {
	var log []string
	routes := []*Route{{OnEnter: record(&log, "x")}}

	c := newCapture()
	RunEnterHooks(c).Resolve(nil, State{Path: "/", Routes: routes})
	c.wait(t)

	if len(log) != 0 {
		t.Errorf("hook ran for a next result: %v", log)
	}
}

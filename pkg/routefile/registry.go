package routefile

import (
	"github.com/vango-dev/waypoint/pkg/pipeline"
	"github.com/vango-dev/waypoint/pkg/router"
)

// ChildLoader supplies GetChildRoutes loaders for manifest keys.
type ChildLoader interface {
	GetChildRoutes(key string) func(s pipeline.State, cb func(err error, routes []*router.Route))
}

// Registry resolves the names used in a route file.
type Registry struct {
	// Components maps component names to view artifacts.
	Components map[string]any

	// Hooks maps hook names to middlewares, for onEnter and hooks.
	Hooks map[string]router.Middleware

	// ComponentFunc and HookFunc, when set, resolve names missing from
	// Components and Hooks.
	ComponentFunc func(name string) (any, bool)
	HookFunc      func(name string) (router.Middleware, bool)

	// ChildLoader resolves childRoutesManifest keys.
	ChildLoader ChildLoader
}

func (r *Registry) component(name string) (any, bool) {
	if c, ok := r.Components[name]; ok {
		return c, true
	}
	if r.ComponentFunc != nil {
		return r.ComponentFunc(name)
	}
	return nil, false
}

func (r *Registry) hook(name string) (router.Middleware, bool) {
	if h, ok := r.Hooks[name]; ok {
		return h, true
	}
	if r.HookFunc != nil {
		return r.HookFunc(name)
	}
	return nil, false
}

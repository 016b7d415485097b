package routefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/waypoint/pkg/router"
)

// Format identifies the encoding of a route file.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// FormatFor picks the format from a file extension. Anything that is not
// ".json" is read as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Errors returned while building routes from a file.
var (
	ErrUnknownComponent = errors.New("unknown component")
	ErrUnknownHook      = errors.New("unknown hook")
	ErrNoChildLoader    = errors.New("childRoutesManifest requires a child loader")
	ErrInvalidNode      = errors.New("invalid route node")
)

// File is the top-level document of a route file.
type File struct {
	Routes []Node `json:"routes" yaml:"routes"`
}

// Node is the data form of a single route.
type Node struct {
	ID   any    `json:"id,omitempty" yaml:"id,omitempty"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// From and To declare a redirect route. From is used as the path.
	From string `json:"from,omitempty" yaml:"from,omitempty"`
	To   string `json:"to,omitempty" yaml:"to,omitempty"`

	Redirect  string            `json:"redirect,omitempty" yaml:"redirect,omitempty"`
	Component string            `json:"component,omitempty" yaml:"component,omitempty"`
	OnEnter   string            `json:"onEnter,omitempty" yaml:"onEnter,omitempty"`
	Hooks     map[string]string `json:"hooks,omitempty" yaml:"hooks,omitempty"`

	IndexRoute  *Node  `json:"indexRoute,omitempty" yaml:"indexRoute,omitempty"`
	ChildRoutes []Node `json:"childRoutes,omitempty" yaml:"childRoutes,omitempty"`

	// ChildRoutesManifest names children that are loaded on demand through
	// the registry's ChildLoader.
	ChildRoutesManifest string `json:"childRoutesManifest,omitempty" yaml:"childRoutesManifest,omitempty"`
}

// Load reads and builds the route file at path.
func Load(path string, reg *Registry) ([]*router.Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route file %s: %w", path, err)
	}
	routes, err := Decode(data, FormatFor(path), reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return routes, nil
}

// Read decodes a route file from r.
func Read(r io.Reader, format Format, reg *Registry) ([]*router.Route, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read route file: %w", err)
	}
	return Decode(data, format, reg)
}

// Decode parses data and builds the routes it describes. Unknown fields are
// rejected.
func Decode(data []byte, format Format, reg *Registry) ([]*router.Route, error) {
	file, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	return Build(file.Routes, reg)
}

// Parse decodes data without resolving any names.
func Parse(data []byte, format Format) (*File, error) {
	var file File

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	return &file, nil
}

// Build resolves nodes into routes using reg. A nil registry resolves no
// names.
func Build(nodes []Node, reg *Registry) ([]*router.Route, error) {
	if reg == nil {
		reg = &Registry{}
	}
	return buildAll(nodes, reg, "routes")
}

func buildAll(nodes []Node, reg *Registry, where string) ([]*router.Route, error) {
	routes := make([]*router.Route, 0, len(nodes))
	for i := range nodes {
		route, err := build(&nodes[i], reg, fmt.Sprintf("%s[%d]", where, i))
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, nil
}

func build(n *Node, reg *Registry, where string) (*router.Route, error) {
	route := &router.Route{
		ID:       n.ID,
		Path:     n.Path,
		Redirect: n.Redirect,
	}

	if n.From != "" || n.To != "" {
		switch {
		case n.From == "" || n.To == "":
			return nil, fmt.Errorf("%w at %s: from and to must be set together", ErrInvalidNode, where)
		case n.Path != "" || n.Redirect != "":
			return nil, fmt.Errorf("%w at %s: from/to cannot be combined with path or redirect", ErrInvalidNode, where)
		}
		route.Path = n.From
		route.Redirect = n.To
	}

	if n.Component != "" {
		component, ok := reg.component(n.Component)
		if !ok {
			return nil, fmt.Errorf("%w %q at %s", ErrUnknownComponent, n.Component, where)
		}
		route.Component = component
	}

	if n.OnEnter != "" {
		hook, ok := reg.hook(n.OnEnter)
		if !ok {
			return nil, fmt.Errorf("%w %q at %s", ErrUnknownHook, n.OnEnter, where)
		}
		route.OnEnter = hook
	}

	if len(n.Hooks) > 0 {
		route.Hooks = make(map[string]router.Middleware, len(n.Hooks))
		for event, name := range n.Hooks {
			hook, ok := reg.hook(name)
			if !ok {
				return nil, fmt.Errorf("%w %q for %s at %s", ErrUnknownHook, name, event, where)
			}
			route.Hooks[event] = hook
		}
	}

	if n.IndexRoute != nil {
		index, err := build(n.IndexRoute, reg, where+".indexRoute")
		if err != nil {
			return nil, err
		}
		route.IndexRoute = index
	}

	switch {
	case len(n.ChildRoutes) > 0 && n.ChildRoutesManifest != "":
		return nil, fmt.Errorf("%w at %s: childRoutes and childRoutesManifest are exclusive", ErrInvalidNode, where)

	case len(n.ChildRoutes) > 0:
		children, err := buildAll(n.ChildRoutes, reg, where+".childRoutes")
		if err != nil {
			return nil, err
		}
		route.ChildRoutes = children

	case n.ChildRoutesManifest != "":
		if reg.ChildLoader == nil {
			return nil, fmt.Errorf("%w at %s", ErrNoChildLoader, where)
		}
		route.GetChildRoutes = reg.ChildLoader.GetChildRoutes(n.ChildRoutesManifest)
	}

	return route, nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/waypoint/pkg/pipeline"
	"github.com/vango-dev/waypoint/pkg/router"
)

func routesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route tree",
		Long: `Print the route tree read from the route file.

Examples:
  waypoint routes
  waypoint routes --routes app/routes.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := loadApp(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), a.routes)
			return nil
		},
	}

	return cmd
}

// printTree writes routes as an indented tree.
func printTree(w io.Writer, routes []*router.Route) {
	for i, route := range routes {
		printNode(w, route, "", i == len(routes)-1, false)
	}
}

func printNode(w io.Writer, r *router.Route, prefix string, last, index bool) {
	branch, indent := "├── ", "│   "
	if last {
		branch, indent = "└── ", "    "
	}
	fmt.Fprintf(w, "%s%s%s\n", prefix, branch, describe(r, index))

	children := r.ChildRoutes
	hasIndex := r.IndexRoute != nil
	if hasIndex {
		printNode(w, r.IndexRoute, prefix+indent, len(children) == 0 && r.GetChildRoutes == nil, true)
	}
	for i, child := range children {
		printNode(w, child, prefix+indent, i == len(children)-1, false)
	}
	if children == nil && r.GetChildRoutes != nil {
		fmt.Fprintf(w, "%s%s└── (loaded on demand)\n", prefix, indent)
	}
}

// describe renders a single route line.
func describe(r *router.Route, index bool) string {
	var parts []string

	switch {
	case index:
		parts = append(parts, "(index)")
	case r.Path == "":
		parts = append(parts, "(pathless)")
	default:
		parts = append(parts, r.Path)
	}
	if r.ID != nil {
		parts = append(parts, fmt.Sprintf("[%v]", r.ID))
	}
	if r.Redirect != "" {
		parts = append(parts, "→ "+r.Redirect)
	}
	if r.Component != nil {
		parts = append(parts, fmt.Sprintf("component=%v", r.Component))
	}
	if hooks := hookNames(r); len(hooks) > 0 {
		parts = append(parts, "hooks="+strings.Join(hooks, ","))
	}

	return strings.Join(parts, " ")
}

func hookNames(r *router.Route) []string {
	var names []string
	if r.OnEnter != nil {
		names = append(names, pipeline.HookEnter)
	}
	for name := range r.Hooks {
		if name != pipeline.HookEnter || r.OnEnter == nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

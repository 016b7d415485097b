package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vango-dev/waypoint/internal/errors"
	"github.com/vango-dev/waypoint/pkg/middleware"
	"github.com/vango-dev/waypoint/pkg/pipeline"
	"github.com/vango-dev/waypoint/pkg/router"
)

// resolution is the outcome of a navigation after following redirects.
type resolution struct {
	Path       string              `json:"path"`
	Redirects  []string            `json:"redirects,omitempty"`
	Routes     []string            `json:"routes"`
	Params     map[string][]string `json:"params,omitempty"`
	Components []string            `json:"components"`
}

func resolveCmd(opts *globalOptions) *cobra.Command {
	var (
		jsonOutput bool
		trace      bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve a path against the route tree",
		Long: `Resolve a path against the route tree and print the matched routes,
parameters and components. Redirects are followed up to the limit set
in waypoint.json.

Examples:
  waypoint resolve /users/42
  waypoint resolve "/search?q=go#results" --json
  waypoint resolve /docs/setup --routes app/routes.json --trace`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("W401").
					WithDetail(fmt.Sprintf("resolve takes exactly one path, got %d", len(args))).
					WithExample("waypoint resolve /users/42")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, opts, args[0], jsonOutput, trace)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print a span for each navigation to stderr")

	return cmd
}

func runResolve(cmd *cobra.Command, opts *globalOptions, path string, jsonOutput, trace bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := loadApp(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	var wraps []func(...pipeline.Middleware) pipeline.Middleware
	if trace {
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(newSpanPrinter(cmd.ErrOrStderr())))
		defer tp.Shutdown(context.WithoutCancel(ctx))
		wraps = append(wraps, middleware.NewTracing(middleware.WithTracerProvider(tp)).Wrap)
	}

	res, err := a.follow(ctx, a.router(wraps...), path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printResolution(out, res)
	}

	if a.registry != nil {
		return writeMetrics(cmd.ErrOrStderr(), a)
	}
	return nil
}

// follow resolves path, following redirects up to the configured limit.
func (a *app) follow(ctx context.Context, r *pipeline.Router, path string) (*resolution, error) {
	var redirects []string
	for {
		navCtx, cancel := context.WithTimeout(ctx, a.cfg.NavigationTimeout())
		s, err := r.Resolve(navCtx, path)
		cancel()
		if err != nil {
			return nil, errors.FromNavigation(err).
				WithDetail(fmt.Sprintf("Resolving %q failed.", path))
		}

		switch pipeline.Classify(nil, s) {
		case pipeline.OutcomeRedirect:
			if len(redirects) >= a.cfg.RedirectLimit() {
				return nil, errors.New("W309").
					WithDetail(fmt.Sprintf("Gave up after %d redirects: %s", len(redirects), strings.Join(append(redirects, s.Path), " → "))).
					WithSuggestion("Check the route file for redirect cycles")
			}
			a.logger.Info("following redirect", "from", s.Path, "to", s.Redirect)
			redirects = append(redirects, s.Path)
			path = s.Redirect

		case pipeline.OutcomeDone:
			return newResolution(s, redirects), nil

		default:
			return nil, errors.New("W308").
				WithDetail(fmt.Sprintf("No route in the tree fully matches %q.", s.Pathname))
		}
	}
}

func newResolution(s pipeline.State, redirects []string) *resolution {
	res := &resolution{
		Path:       s.Path,
		Redirects:  redirects,
		Routes:     make([]string, 0, len(s.Routes)),
		Components: make([]string, 0, len(s.Components)),
	}
	for _, route := range s.Routes {
		res.Routes = append(res.Routes, routeLabel(route))
	}
	if len(s.Params) > 0 {
		res.Params = s.Params
	}
	for _, c := range s.Components {
		res.Components = append(res.Components, fmt.Sprint(c.Component))
	}
	return res
}

func printResolution(w io.Writer, res *resolution) {
	if len(res.Redirects) > 0 {
		fmt.Fprintf(w, "  Redirects:  %s → %s\n", strings.Join(res.Redirects, " → "), res.Path)
	}
	fmt.Fprintf(w, "  Path:       %s\n", res.Path)
	fmt.Fprintf(w, "  Routes:     %s\n", strings.Join(res.Routes, " > "))

	if len(res.Params) > 0 {
		names := make([]string, 0, len(res.Params))
		for name := range res.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		pairs := make([]string, 0, len(names))
		for _, name := range names {
			pairs = append(pairs, name+"="+strings.Join(res.Params[name], ","))
		}
		fmt.Fprintf(w, "  Params:     %s\n", strings.Join(pairs, " "))
	}

	fmt.Fprintf(w, "  Components: %s\n", strings.Join(res.Components, ", "))
}

// routeLabel names a route by its ID, falling back to its pattern.
func routeLabel(r *router.Route) string {
	switch {
	case r.ID != nil:
		return fmt.Sprint(r.ID)
	case r.Path != "":
		return r.Path
	default:
		return "(pathless)"
	}
}

func writeMetrics(w io.Writer, a *app) error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/waypoint/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	routesPath string
	logLevel   string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:   "waypoint",
		Short: "Resolve navigation paths against a route tree",
		Long: `Waypoint resolves a navigation path through a middleware pipeline and a
nested route tree, reporting the matched routes, parameters, redirects
and components.

Route trees are read from YAML or JSON files. Child routes may be loaded
on demand from an S3 bucket configured in waypoint.json.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor || os.Getenv("NO_COLOR") != "" {
				errors.DisableColors()
			}
		},
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.FromError(err, "W401").
			WithSuggestion("Run '" + cmd.CommandPath() + " --help' for usage")
	})

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to waypoint.json (default: nearest in parent directories)")
	rootCmd.PersistentFlags().StringVarP(&opts.routesPath, "routes", "r", "", "Route file (default from waypoint.json)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output (also set by NO_COLOR)")

	rootCmd.AddCommand(
		resolveCmd(&opts),
		routesCmd(&opts),
		initCmd(),
		codesCmd(),
		versionCmd(),
	)

	return rootCmd
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	mark := "✓"
	if errors.ColorsEnabled() {
		mark = "\033[32m✓\033[0m"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, fmt.Sprintf(format, args...))
}

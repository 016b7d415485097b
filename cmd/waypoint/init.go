package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/waypoint/internal/config"
	"github.com/vango-dev/waypoint/internal/errors"
)

const sampleRoutes = `routes:
  - id: app
    path: /
    component: App
    indexRoute:
      component: Home
    childRoutes:
      - id: user
        path: users/:id
        component: User
      - from: profile/:id
        to: users/:id
`

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create waypoint.json and a sample route file",
		Long: `Create waypoint.json with default settings and, if missing, a sample
routes.yaml in the given directory (default: the current directory).

Examples:
  waypoint init
  waypoint init ./nav --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing waypoint.json")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	if config.Exists(dir) && !force {
		return errors.New("W401").
			WithDetail(config.ConfigFileName + " already exists in " + dir).
			WithSuggestion("Pass --force to overwrite it")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.New("W401").Wrap(err)
	}

	cfg := config.New()
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		return err
	}
	success(cmd, "Created %s", cfg.Path())

	routes := cfg.RoutesPath()
	if _, err := os.Stat(routes); os.IsNotExist(err) {
		if err := os.WriteFile(routes, []byte(sampleRoutes), 0644); err != nil {
			return errors.New("W401").Wrap(err)
		}
		success(cmd, "Created %s", routes)
	}

	return nil
}

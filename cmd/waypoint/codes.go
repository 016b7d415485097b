package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/waypoint/internal/errors"
)

func codesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes [code]",
		Short: "List error codes",
		Long: `List every error code the CLI reports, or explain a single one.

Examples:
  waypoint codes
  waypoint codes W309`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, code := range errors.GetAllCodes() {
					t, _ := errors.GetTemplate(code)
					fmt.Fprintf(out, "%s  %-10s  %s\n", code, t.Category, t.Message)
				}
				return nil
			}

			code := strings.ToUpper(args[0])
			t, ok := errors.GetTemplate(code)
			if !ok {
				return errors.New("W401").
					WithDetail("Unknown error code " + args[0]).
					WithSuggestion("Run 'waypoint codes' to list them")
			}
			fmt.Fprintf(out, "%s: %s\n\n", code, t.Message)
			fmt.Fprintf(out, "  Category: %s\n", t.Category)
			fmt.Fprintf(out, "  %s\n", t.Detail)
			fmt.Fprintf(out, "  Learn more: %s\n", t.DocURL)
			return nil
		},
	}

	return cmd
}

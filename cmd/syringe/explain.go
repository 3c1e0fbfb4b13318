package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/syringe/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe error codes",
		Long: `Describe an error code, or list every code when none is given.

Examples:
  syringe explain
  syringe explain E202`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, code := range errors.GetAllCodes() {
					tmpl, _ := errors.GetTemplate(code)
					fmt.Fprintf(out, "%s  %-10s %s\n", code, tmpl.Category, tmpl.Message)
				}
				return nil
			}

			tmpl, ok := errors.GetTemplate(args[0])
			if !ok {
				return fmt.Errorf("unknown error code %q", args[0])
			}
			fmt.Fprintf(out, "%s: %s\n", args[0], tmpl.Message)
			if tmpl.Detail != "" {
				fmt.Fprintf(out, "\n%s\n", tmpl.Detail)
			}
			if tmpl.Suggestion != "" {
				fmt.Fprintf(out, "\nHint: %s\n", tmpl.Suggestion)
			}
			return nil
		},
	}
}

package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/syringe/internal/config"
	"github.com/vango-dev/syringe/internal/errors"
)

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default syringe.json",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if config.Exists(dir) && !force {
				return errors.New("E141").
					WithDetailf("%s already exists", filepath.Join(dir, config.ConfigFileName)).
					WithSuggestion("Pass --force to overwrite it.")
			}

			cfg := config.New()
			if abs, err := filepath.Abs(dir); err == nil {
				cfg.Name = filepath.Base(abs)
			}
			path := filepath.Join(dir, config.ConfigFileName)
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Join(dir, cfg.Fixtures.Dir), 0o755); err != nil {
				return errors.New("E141").Wrap(err)
			}
			success("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing syringe.json")

	return cmd
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/vango-dev/syringe/internal/config"
	"github.com/vango-dev/syringe/pkg/fixture"
	"github.com/vango-dev/syringe/pkg/middleware"
	"github.com/vango-dev/syringe/pkg/playground"
	"github.com/vango-dev/syringe/pkg/syringe"
)

type injectOptions struct {
	emit     []string
	asJSON   bool
	dump     bool
	pretty   bool
	parallel bool
}

func injectCmd(global *globalOptions) *cobra.Command {
	opts := &injectOptions{}

	cmd := &cobra.Command{
		Use:   "inject <fixture>",
		Short: "Run a fixture and print the injected children",
		Long: `Build the fixture's wrapper and children, inject the wrapper's bindings
and print the rendered children.

The fixture is a path (relative to the working directory or to the
configured fixtures directory), an s3://bucket/key location, or "-" for
standard input.

Examples:
  syringe inject buttons.yaml
  syringe inject buttons.yaml --emit click --emit focus
  syringe inject s3://fixtures/buttons.yaml --json
  cat buttons.yaml | syringe inject - --dump`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("pretty") {
				cfg.Render.Pretty = opts.pretty
			}
			if cmd.Flags().Changed("parallel") {
				cfg.Parallel = opts.parallel
			}
			return runInject(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), cfg, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.emit, "emit", "e", nil, "Fire an event on every child after injection (repeatable)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "Dump the injected node trees")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the rendered HTML (default from syringe.json)")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "Process children concurrently (default from syringe.json)")

	return cmd
}

func runInject(ctx context.Context, out io.Writer, in io.Reader, cfg *config.Config, location string, opts *injectOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(cfg)

	doc, err := loadFixture(ctx, in, cfg, location)
	if err != nil {
		return err
	}

	pipeline := &playground.Pipeline{
		Syringe: syringe.New(syringe.Options{Logger: logger, Parallel: cfg.Parallel}),
		Tracing: newTracing(cfg),
		Pretty:  cfg.Render.Pretty,
		Indent:  cfg.Render.Indent,
		Logger:  logger,
	}
	result, err := pipeline.Run(ctx, doc, opts.emit...)
	if err != nil {
		return err
	}

	switch {
	case opts.asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case opts.dump:
		dumper := spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		dumper.Fdump(out, result.Children)
		return nil
	}

	fmt.Fprintln(out, result.HTML)
	printSummary(out, result)
	return nil
}

// loadFixture reads location from stdin, the working directory, the
// fixtures directory or S3.
func loadFixture(ctx context.Context, in io.Reader, cfg *config.Config, location string) (*fixture.Document, error) {
	if location == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, err
		}
		return fixture.Parse(data, "stdin")
	}

	if _, err := os.Stat(location); err == nil {
		if abs, err := filepath.Abs(location); err == nil {
			location = abs
		}
	}

	loader := &fixture.Loader{
		Files: fixture.FileSource{Dir: cfg.FixturesPath()},
		S3: fixture.NewS3Source(fixture.S3Config{
			Region:    cfg.Fixtures.S3.Region,
			Endpoint:  cfg.Fixtures.S3.Endpoint,
			PathStyle: cfg.Fixtures.S3.PathStyle,
		}),
	}
	return loader.Load(ctx, location)
}

func newTracing(cfg *config.Config) *middleware.Tracing {
	return middleware.NewTracing(middleware.WithTracerName(cfg.Tracing.TracerName))
}

func printSummary(w io.Writer, r *playground.Result) {
	s := r.Stats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Children:   %d (%d elements, %d components, %d skipped)\n", s.Children, s.Elements, s.Components, s.Skipped)
	fmt.Fprintf(w, "  Bindings:   %d\n", s.Bindings)
	if s.FastPath {
		fmt.Fprintf(w, "  Fast path:  wrapper has no bindings\n")
	}
	if s.Mismatches > 0 {
		fmt.Fprintf(w, "  Mismatches: %d\n", s.Mismatches)
	}
	if len(r.DuplicateKeys) > 0 {
		keys := make([]string, 0, len(r.DuplicateKeys))
		for k := range r.DuplicateKeys {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  Duplicate key %q on %d children\n", k, r.DuplicateKeys[k])
		}
	}
	if len(r.Calls) > 0 {
		fmt.Fprintln(w, "  Calls:")
		for _, c := range r.Calls {
			fmt.Fprintf(w, "    %s on <%s>\n", c, c.Receiver)
		}
	}
}

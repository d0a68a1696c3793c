package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/triplecheck/triplecheck/rdf"
	"github.com/triplecheck/triplecheck/shacl"
)

func newValidateCommand(state *cliState) *cobra.Command {
	var (
		shapesPattern string
		asJSON        bool
		watch         bool
	)

	cmd := &cobra.Command{
		Use:   "validate <data-glob>",
		Short: "Validate data graphs against shapes",
		Long: `Validate reads one or more N-Quads data files (glob patterns with **
are supported) and validates each against the shapes graph.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if shapesPattern == "" {
				shapesPattern = state.cfg.Validator.ShapesPath
			}
			if shapesPattern == "" {
				return fmt.Errorf("no shapes file given: use --shapes or set validator.shapes_path")
			}

			runner := &validateRunner{
				dataPattern:   args[0],
				shapesPattern: shapesPattern,
				asJSON:        asJSON,
				engine:        shacl.NewEngine(state.logger),
				logger:        state.logger,
				out:           cmd.OutOrStdout(),
			}

			conforms, err := runner.run()
			if err != nil {
				return err
			}

			if watch {
				return runner.watch(cmd.Context())
			}
			if !conforms {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&shapesPattern, "shapes", "s", "", "Shapes file or glob")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit reports as JSON")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Revalidate when matched files change")

	return cmd
}

type validateRunner struct {
	dataPattern   string
	shapesPattern string
	asJSON        bool
	engine        *shacl.Engine
	logger        *slog.Logger
	out           io.Writer
}

// run validates every matched data file and reports whether all conform.
func (r *validateRunner) run() (bool, error) {
	dataFiles, err := expandGlob(r.dataPattern)
	if err != nil {
		return false, err
	}
	if len(dataFiles) == 0 {
		return false, fmt.Errorf("no data files match %s", r.dataPattern)
	}

	shapesFiles, err := expandGlob(r.shapesPattern)
	if err != nil {
		return false, err
	}
	if len(shapesFiles) == 0 {
		return false, fmt.Errorf("no shapes files match %s", r.shapesPattern)
	}

	shapes, err := loadStores(shapesFiles)
	if err != nil {
		return false, err
	}

	conforms := true
	for _, path := range dataFiles {
		data, err := rdf.ReadFile(path)
		if err != nil {
			r.logger.Error("Failed to read data file",
				slog.String("path", path),
				slog.String("error", err.Error()))
			conforms = false
			continue
		}

		report, err := r.engine.ValidateGraph(data, shapes)
		if err != nil {
			return false, fmt.Errorf("validate %s: %w", path, err)
		}
		if !report.Conforms {
			conforms = false
		}
		r.print(path, report)
	}
	return conforms, nil
}

func (r *validateRunner) print(path string, report *shacl.Report) {
	if r.asJSON {
		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			r.logger.Error("Failed to encode report", slog.String("error", err.Error()))
			return
		}
		fmt.Fprintf(r.out, "%s\n", encoded)
		return
	}

	if report.Conforms {
		fmt.Fprintf(r.out, "%s: conforms (%d shape(s), %dms)\n",
			path, report.Statistics.ShapesValidated, report.Statistics.ValidationTime)
		return
	}
	fmt.Fprintf(r.out, "%s: %d violation(s)\n", path, len(report.Violations))
	for _, v := range report.Violations {
		fmt.Fprintf(r.out, "  %s %s: %s\n", v.FocusNode, v.ResultPath, v.ResultMessage)
	}
}

// expandGlob resolves a pattern with ** support; a plain path that exists is
// returned as-is.
func expandGlob(pattern string) ([]string, error) {
	if _, err := os.Stat(pattern); err == nil {
		return []string{pattern}, nil
	}
	abs, err := filepath.Abs(pattern)
	if err != nil {
		return nil, err
	}
	matches, err := doublestar.FilepathGlob(abs)
	if err != nil {
		return nil, fmt.Errorf("bad glob %s: %w", pattern, err)
	}
	return matches, nil
}

// loadStores reads and merges multiple N-Quads files into one store.
func loadStores(paths []string) (*rdf.MemoryStore, error) {
	merged := rdf.NewMemoryStore()
	for _, path := range paths {
		store, err := rdf.ReadFile(path)
		if err != nil {
			return nil, err
		}
		for _, quad := range store.Quads() {
			merged.Add(quad)
		}
	}
	return merged, nil
}

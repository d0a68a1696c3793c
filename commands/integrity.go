package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/triplecheck/triplecheck/shacl"
)

func newIntegrityCommand(state *cliState) *cobra.Command {
	var (
		endpoint      string
		shapesPattern string
	)

	cmd := &cobra.Command{
		Use:   "integrity",
		Short: "Run graph-integrity checks against an endpoint",
		Long: `Integrity runs five checks: orphaned nodes, broken references, missing
required properties (when shapes are given), duplicate entities, and cyclic
dependencies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newQueryEngine(state, endpoint)
			if err != nil {
				return err
			}

			var shapes []*shacl.Shape
			if shapesPattern == "" {
				shapesPattern = state.cfg.Validator.ShapesPath
			}
			if shapesPattern != "" {
				shapes, err = parseShapesPattern(state, shapesPattern)
				if err != nil {
					return err
				}
			}

			report := engine.CheckIntegrity(cmd.Context(), shapes)
			encoded, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", encoded)

			if len(report.Errors) > 0 {
				return fmt.Errorf("integrity errors found")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "SPARQL query endpoint URL")
	cmd.Flags().StringVarP(&shapesPattern, "shapes", "s", "", "Shapes file or glob for required-property checks")

	return cmd
}

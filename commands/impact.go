package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/triplecheck/triplecheck/query"
)

func newImpactCommand(state *cliState) *cobra.Command {
	var (
		endpoint      string
		maxDependents int
	)

	cmd := &cobra.Command{
		Use:   "impact <entity-iri>",
		Short: "Analyze the blast radius of changing an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newQueryEngine(state, endpoint)
			if err != nil {
				return err
			}

			report, err := engine.AnalyzeImpact(cmd.Context(), args[0], query.ImpactOptions{
				MaxDependents: maxDependents,
			})
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", encoded)
			return nil
		},
	}

	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "SPARQL query endpoint URL")
	cmd.Flags().IntVar(&maxDependents, "max-dependents", 0, "Cap on each dependent list")

	return cmd
}

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/triplecheck/triplecheck/shacl"
)

func newStatsCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <shapes-glob>",
		Short: "Summarize a shapes graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shapes, err := parseShapesPattern(state, args[0])
			if err != nil {
				return err
			}

			stats := shacl.Statistics(shapes)
			encoded, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", encoded)
			return nil
		},
	}
}

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/triplecheck/triplecheck/shacl"
)

func newLintCommand(state *cliState) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lint <shapes-glob>",
		Short: "Check shapes for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shapes, err := parseShapesPattern(state, args[0])
			if err != nil {
				return err
			}

			issues := shacl.LintShapes(shapes)
			if asJSON {
				encoded, err := json.MarshalIndent(issues, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", encoded)
			} else {
				for _, issue := range issues {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", issue.Type, issue.ShapeID, issue.Message)
				}
			}

			for _, issue := range issues {
				if issue.Type == shacl.LintError {
					return fmt.Errorf("shapes have errors")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit issues as JSON")
	return cmd
}

// parseShapesPattern expands a glob, merges the matched files, and parses
// the shapes with the configured parser features.
func parseShapesPattern(state *cliState, pattern string) ([]*shacl.Shape, error) {
	files, err := expandGlob(pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no shapes files match %s", pattern)
	}

	store, err := loadStores(files)
	if err != nil {
		return nil, err
	}

	parser := shacl.NewParser(shacl.ParserConfig{
		AdvancedFeatures: state.cfg.Validator.AdvancedFeatures,
	}, state.logger)
	return parser.Parse(store)
}

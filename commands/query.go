package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/triplecheck/triplecheck/query"
)

func newQueryCommand(state *cliState) *cobra.Command {
	var (
		endpoint   string
		skipCache  bool
		maxResults int
	)

	cmd := &cobra.Command{
		Use:   "query <query-text>",
		Short: "Execute a query against a SPARQL endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newQueryEngine(state, endpoint)
			if err != nil {
				return err
			}

			result, err := engine.Execute(cmd.Context(), args[0], query.ExecOptions{
				SkipCache:  skipCache,
				MaxResults: maxResults,
			})
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", encoded)
			return nil
		},
	}

	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "SPARQL query endpoint URL")
	cmd.Flags().BoolVar(&skipCache, "skip-cache", false, "Bypass the result cache")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Override the injected LIMIT")

	return cmd
}

// newQueryEngine builds a query engine against the flag or configured
// endpoint.
func newQueryEngine(state *cliState, endpoint string) (*query.Engine, error) {
	if endpoint == "" {
		endpoint = state.cfg.Query.Endpoint
	}
	if endpoint == "" {
		return nil, fmt.Errorf("no query endpoint given: use --endpoint or set query.endpoint")
	}

	exec := query.NewSPARQLEndpoint(endpoint, state.cfg.Query.Timeout)
	return query.NewEngine(exec, query.Options{
		EnableCaching:      state.cfg.Query.EnableCaching,
		MaxCacheSize:       state.cfg.Query.MaxCacheSize,
		QueryTimeout:       state.cfg.Query.Timeout,
		MaxResults:         state.cfg.Query.MaxResults,
		EnableOptimization: state.cfg.Query.EnableOptimization,
		EnableProvenance:   state.cfg.Query.EnableProvenance,
	}, state.logger), nil
}

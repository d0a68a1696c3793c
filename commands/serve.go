package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/triplecheck/triplecheck/server"
	"github.com/triplecheck/triplecheck/shacl"
)

func newServeCommand(state *cliState) *cobra.Command {
	var (
		endpoint string
		address  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve validation and query operations over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, err := newQueryEngine(state, endpoint)
			if err != nil {
				return err
			}

			cfg := state.cfg.Server
			if address != "" {
				cfg.Address = address
			}

			srv := server.New(shacl.NewEngine(state.logger), queries, cfg, state.logger)

			signalCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-signalCtx.Done():
			}

			state.logger.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				state.logger.Error("Shutdown failed", slog.String("error", err.Error()))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "SPARQL query endpoint URL")
	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (overrides config)")

	return cmd
}

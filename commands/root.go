// Package commands implements the triplecheck CLI.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/triplecheck/triplecheck/config"
)

// Version is the CLI version, overridable at build time.
var Version = "0.1.0"

// cliState carries flags and lazily built collaborators shared by all
// subcommands.
type cliState struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds the triplecheck command tree.
func NewRootCommand() *cobra.Command {
	state := &cliState{}

	cmd := &cobra.Command{
		Use:   "triplecheck",
		Short: "Shape validation and query analytics for RDF graphs",
		Long: `Triplecheck validates RDF data against SHACL-style shapes and runs
graph queries with caching, impact analysis, and integrity checks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.setup()
		},
	}

	cmd.PersistentFlags().StringVarP(&state.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&state.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&state.logFormat, "log-format", "", "Log format (text, json)")

	cmd.AddCommand(
		newValidateCommand(state),
		newLintCommand(state),
		newStatsCommand(state),
		newQueryCommand(state),
		newImpactCommand(state),
		newIntegrityCommand(state),
		newServeCommand(state),
		newVersionCommand(),
	)

	return cmd
}

// setup loads configuration and installs the logger. Flags override the
// loaded config.
func (s *cliState) setup() error {
	var cfg *config.Config
	var err error
	if s.configPath != "" {
		cfg, err = config.LoadFromFile(s.configPath)
		if err != nil {
			return err
		}
	} else {
		cfg, err = config.NewLoader(nil).Load()
		if err != nil {
			return err
		}
	}

	if s.logLevel != "" {
		cfg.Log.Level = s.logLevel
	}
	if s.logFormat != "" {
		cfg.Log.Format = s.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.cfg = cfg
	s.logger = buildLogger(cfg.Log)
	slog.SetDefault(s.logger)
	return nil
}

func buildLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "triplecheck version %s\n", Version)
		},
	}
}

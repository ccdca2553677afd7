// Package commands defines all Cobra CLI commands for the scout binary.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/d3vos/scout-go/internal/audit"
	"github.com/d3vos/scout-go/internal/config"
	"github.com/d3vos/scout-go/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scout",
		Short: "A research agent over your documents and the live web",
		Long: `Scout is a local-first research assistant. It answers questions from a
vector index of ingested documents (arXiv papers, web pages), from live web
search, or from both, and keeps per-session conversation history.

Model provider is selected via the MODEL_PROVIDER environment variable
or a YAML config file (~/.scout/config.yaml).
See 'scout --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			path, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			loadedConfigPath = path

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.Name(), loadedConfigPath)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.scout/config.yaml)")

	root.AddCommand(
		NewAskCmd(),
		NewChatCmd(),
		NewServeCmd(),
		NewIngestCmd(),
		NewEvalCmd(),
		NewVersionCmd(),
	)

	return root
}

// Package commands defines all Cobra CLI commands for the machuni binary.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ShrillShrestha/Machuni/internal/audit"
	"github.com/ShrillShrestha/Machuni/internal/config"
	"github.com/ShrillShrestha/Machuni/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "machuni",
		Short: "Machuni — a grounded assistant for newcomers to the United States",
		Long: `Machuni answers practical questions for immigrants and international
students using a curated document corpus (banking, housing, immigration,
taxation, driving, health, and more).

Answers are grounded in retrieved documents: when the corpus holds nothing
relevant, Machuni says so instead of guessing.

Model provider is selected via the MODEL_PROVIDER environment variable
or a YAML config file (~/.machuni/config.yaml).
See 'machuni --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// A .env file in the working directory is optional.
			_ = godotenv.Load()

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

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.machuni/config.yaml)")

	root.AddCommand(
		NewAskCmd(),
		NewStartersCmd(),
		NewIngestCmd(),
		NewServeCmd(),
		NewVersionCmd(),
	)

	return root
}

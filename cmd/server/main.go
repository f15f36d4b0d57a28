// Command portal serves the client portal API and runs its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set with -ldflags at build time.
var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

const appName = "portal"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Client portal API server",
		Long: `portal serves the client portal JSON API: public contact form,
admin dashboard and client dashboards backed by PostgreSQL or SQLite.

Configuration comes from the environment, optionally preloaded from a .env file.`,
		SilenceUsage: true,
		// Running the binary without a subcommand starts the server.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load before reading the environment (ignored if missing)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), envFile)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrate(envFile)
			},
		},
		seedCmd(&envFile),
		&cobra.Command{
			Use:   "purge-sessions",
			Short: "Delete expired login sessions",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runPurgeSessions(cmd.Context(), envFile, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)
	return cmd
}

func seedCmd(envFile *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the users listed in a YAML seed file",
		Example: `  portal seed --file seed.yaml

  # seed.yaml
  users:
    - id: "42"
      email: owner@example.com
      firstName: Ada
      role: admin`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), *envFile, file, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "Seed file path")
	return cmd
}

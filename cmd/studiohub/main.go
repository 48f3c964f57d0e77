// Package main provides the studiohub binary: the HTTP API and its
// database tooling.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"studiohub/internal/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "studiohub",
		Short: "Design studio administration API",
		Long: `studiohub serves the StudioHub REST API: users, clients, craftsmen,
projects, campaigns, items, quotes and tasks of a design studio.

Configuration is read from defaults, an optional JSON or YAML file, a .env
file, the environment and finally the command-line flags.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringP(server.FlagConfig, "c", "", "path to a JSON or YAML config file (or CONFIG)")
	pf.String(server.FlagEnvFile, ".env", "dotenv file loaded before reading the environment")
	pf.String(server.FlagLogLevel, "", "log level: debug, info, warn or error")
	pf.String(server.FlagDBStr, "", "database connection string (or DATABASE_URL)")
	pf.String(server.FlagMigratePath, "", "directory holding the SQL migrations")

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"studiohub/internal/server"
	"studiohub/repository/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.ReadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if err := db.Migration(cfg.DBStr, cfg.MigratePath); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "migrations in %s applied to %s\n", cfg.MigratePath, maskDSN(cfg.DBStr))
			return nil
		},
	}
}

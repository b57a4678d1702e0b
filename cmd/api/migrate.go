package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/workly_be/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, lg, err := bootstrap()
		if err != nil {
			return err
		}
		defer lg.Sync() //nolint:errcheck

		gdb, err := db.Connect(cfg.DBDSN)
		if err != nil {
			lg.Error("connecting to database", zap.Error(err))
			return err
		}
		if err := db.Migrate(gdb); err != nil {
			lg.Error("migrating", zap.Error(err))
			return err
		}

		lg.Info("migration complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

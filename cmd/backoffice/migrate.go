package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/backoffice/pkg/database"
)

func migrateCmd() *cobra.Command {
	var (
		down    bool
		version uint
		force   int
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, sync, err := loadApp()
			if err != nil {
				return err
			}
			defer sync()

			if err := a.connect(cmd.Context(), connectOptions{}); err != nil {
				return err
			}
			defer a.close(context.Background())

			cfg := a.cfg.Migrations()
			cfg.Down = down
			if cmd.Flags().Changed("version") {
				cfg.Version = version
			}
			if cmd.Flags().Changed("force") {
				cfg.Force = force
			}
			return database.NewMigrationService(a.logger, cfg).MigratePostgres(a.sqlDB.DB, a.cfg.DatabaseName)
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back the latest migration")
	cmd.Flags().UintVar(&version, "version", 0, "migrate to this version instead of the latest")
	cmd.Flags().IntVar(&force, "force", 0, "force the schema version before migrating")
	return cmd
}

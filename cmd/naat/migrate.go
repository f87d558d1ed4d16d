package main

import (
	"fmt"

	"naat/internal/app"
	"naat/internal/config"
	"naat/internal/db"
	"naat/migrations"
	"naat/pkg/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		log := logger.NewFromEnv()

		cfg, err := config.Load(log)
		if err != nil {
			return err
		}
		conn, err := app.Connect(cfg, log)
		if err != nil {
			return err
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if err := db.Migrate(conn, migrations.FS, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		return nil
	},
}

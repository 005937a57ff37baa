package main

import (
	"fmt"

	dbadapter "feedline/internal/adapters/database"
	"feedline/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := config.InitLogger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			db, err := config.InitDB(cfg, logger)
			if err != nil {
				return err
			}
			defer config.CloseDB(db, logger)

			if err := dbadapter.Migrate(db); err != nil {
				logger.Error("Error during migrations", zap.Error(err))
				return err
			}
			logger.Info("✅ Database migrations completed")
			return nil
		},
	}
}

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/example/seat-rotation/internal/config"
	"github.com/example/seat-rotation/internal/persistence/sqlite"
)

func newMigrateCmd(newLogger func() *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := config.Load()
			if err != nil {
				logger.Error("failed to load configuration", "error", err)
				return err
			}

			pool, err := sqlite.Open(cfg.SQLiteDSN)
			if err != nil {
				logger.Error("failed to open database", "error", err)
				return err
			}
			defer func() {
				_ = pool.Close()
			}()

			if err := pool.Migrate(cmd.Context()); err != nil {
				logger.Error("failed to apply migrations", "error", err)
				return err
			}

			logger.Info("database schema is up to date", "dsn", cfg.SQLiteDSN)
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/meritrix/meritrix-backend/internal/config"
	"github.com/meritrix/meritrix-backend/internal/seed"
	"github.com/meritrix/meritrix-backend/pkg/database"
	"github.com/meritrix/meritrix-backend/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrationsPath string
	downSteps      int
)

func main() {
	cfg := config.LoadConfig()
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: "stdout"})
	defer func() { _ = log.Sync() }()

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Meritrix database schema and seed tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&migrationsPath, "path", "", "migrations directory (default: nearest ./migrations)")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cfg, log, func(m *database.Migrator) error { return m.Up() })
			},
		},
		downCommand(cfg, log),
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cfg, log, func(m *database.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Load the starter catalog and the Vedic Maths pass product",
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := database.NewDatabase(cfg, log)
				if err != nil {
					return err
				}
				return seed.New(db, log).Run(context.Background())
			},
		},
	)

	if err := root.Execute(); err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func downCommand(cfg *config.Config, log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cfg, log, func(m *database.Migrator) error { return m.Down(downSteps) })
		},
	}
	cmd.Flags().IntVar(&downSteps, "steps", 1, "number of migrations to roll back (0 = all)")
	return cmd
}

func withMigrator(cfg *config.Config, log *zap.Logger, fn func(*database.Migrator) error) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	path := migrationsPath
	if path == "" {
		found, err := database.FindMigrationsDir()
		if err != nil {
			return err
		}
		path = found
	}

	m, err := database.NewMigrator(cfg.Database.URL, path, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("failed to close migrator", zap.Error(err))
		}
	}()
	return fn(m)
}

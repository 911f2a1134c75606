package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bizlist/internal/config"
	"github.com/kailas-cloud/bizlist/internal/db"
)

var fixturesFlag string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema and optionally load fixtures",
	Long: `Applies the SQL schema (postgres, sqlite) or creates the search indexes (redis).
With --fixtures, a YAML dataset is loaded afterwards.

Examples:
  bizlist migrate
  bizlist migrate --fixtures testdata/businesses.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Database.Driver == config.DriverMemory {
			return fmt.Errorf("migrate has nothing to do for the memory driver; set database.fixtures instead")
		}
		ctx := cmd.Context()

		store, err := openStore(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("Schema ready", zap.String("driver", cfg.Database.Driver))

		if fixturesFlag == "" {
			return nil
		}
		ds, err := db.LoadDataset(fixturesFlag)
		if err != nil {
			return err
		}
		if err := store.Seed(ctx, ds); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		logger.Info("Fixtures loaded",
			zap.String("path", fixturesFlag),
			zap.Int("businesses", len(ds.Businesses)),
			zap.Int("media", len(ds.Media)),
		)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&fixturesFlag, "fixtures", "", "YAML dataset to load after migrating")
	rootCmd.AddCommand(migrateCmd)
}

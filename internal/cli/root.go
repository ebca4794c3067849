// Package cli wires configuration, storage and services behind the
// recyclepoints command line.
package cli

import (
	"context"
	"fmt"

	"github.com/ArowuTest/recyclepoints-backend/internal/config"
	"github.com/ArowuTest/recyclepoints-backend/internal/logger"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	mongorepo "github.com/ArowuTest/recyclepoints-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories/sqlite"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "recyclepoints",
	Short: "Recycle Points backend",
	Long: `Recycle Points runs the donation collection API: donors offer waste,
collectors claim and verify pickups, and verified weight becomes points
that can be exchanged for rewards.

Without a subcommand the API server is started.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ./config.yaml or ./config/config.yaml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads configuration and installs the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if _, err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore opens the configured repository backend. Schemas and indexes
// are created as part of opening.
func openStore(ctx context.Context, cfg *config.Config) (repositories.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongoDB:
		store, err := mongorepo.Open(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, mongorepo.Options{
			TxTimeout: cfg.Transaction.Timeout,
		})
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close(context.Background())
			return nil, err
		}
		slog.Info("Connected to MongoDB", "database", cfg.MongoDB.Database)
		return store, nil
	default:
		store, err := sqlite.Open(cfg.Storage.SQLitePath, sqlite.Options{TxTimeout: cfg.Transaction.Timeout})
		if err != nil {
			return nil, err
		}
		slog.Info("Opened SQLite database", "path", cfg.Storage.SQLitePath)
		return store, nil
	}
}

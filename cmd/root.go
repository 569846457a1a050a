package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/elgrid-dk/calc-cli/internal/config"
	"github.com/elgrid-dk/calc-cli/internal/engine"
	"github.com/elgrid-dk/calc-cli/internal/model"
	"github.com/elgrid-dk/calc-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "elcalc",
	Short: "Calculation engine for electrical contractor quoting",
	Long:  "Estimates installation time, panel sizing, cable requirements and pricing for electrical projects, with risk analysis, profit simulation and anomaly detection.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initStore opens the configured catalog store.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return store.NewSQLite(cfg.Store.Path)
	}
}

// buildEngine constructs the calculation engine from the stored catalog.
// A missing or unreadable store is not fatal: every lookup degrades to the
// default component profile, so calculation still works on a fresh install.
func buildEngine(ctx context.Context) *engine.Engine {
	catalog, err := loadStoredCatalog(ctx)
	if err != nil {
		zap.L().Warn("catalog unavailable, calculating with default profiles", zap.Error(err))
	}
	return engine.New(catalog, cfg.Pricing, cfg.Rates)
}

func loadStoredCatalog(ctx context.Context) (model.CatalogData, error) {
	st, err := initStore(ctx)
	if err != nil {
		return model.CatalogData{}, err
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return model.CatalogData{}, err
	}
	return store.LoadCatalog(ctx, st)
}

package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/elgrid-dk/calc-cli/internal/store"
)

var catalogMerge bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the component time catalog",
}

var catalogMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("catalog"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}
		zap.L().Info("schema migrated", zap.String("driver", cfg.Store.Driver))
		return nil
	},
}

var catalogLoadCmd = &cobra.Command{
	Use:   "load <catalog-file>",
	Short: "Load a catalog file into the store",
	Long:  "Reads a YAML or JSON catalog of component time profiles, installation types and room templates, validates it, and replaces the stored catalog. With --merge (postgres only) component time profiles are upserted instead, leaving installation types and templates untouched.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("catalog"); err != nil {
			return err
		}

		catalog, err := store.LoadCatalogFile(args[0])
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		if catalogMerge {
			pg, ok := st.(*store.PostgresStore)
			if !ok {
				return eris.New("catalog: --merge requires the postgres store")
			}
			n, err := pg.MergeComponentTimes(ctx, catalog.ComponentTimes)
			if err != nil {
				return err
			}
			zap.L().Info("component times merged", zap.Int64("rows", n))
			return nil
		}

		if err := st.ReplaceCatalog(ctx, catalog); err != nil {
			return err
		}
		zap.L().Info("catalog replaced",
			zap.Int("component_times", len(catalog.ComponentTimes)),
			zap.Int("installation_types", len(catalog.InstallationTypes)),
			zap.Int("room_templates", len(catalog.RoomTemplates)),
		)
		return nil
	},
}

func init() {
	catalogLoadCmd.Flags().BoolVar(&catalogMerge, "merge", false, "upsert component time profiles instead of replacing the catalog (postgres only)")
	catalogCmd.AddCommand(catalogMigrateCmd, catalogLoadCmd)
	rootCmd.AddCommand(catalogCmd)
}

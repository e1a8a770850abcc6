package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mr1hm/go-disaster-hub/internal/repository"
)

var exportDBPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog's reference tables to a SQLite database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		path := cfg.Export.DBPath
		if cmd.Flags().Changed("db") {
			path = exportDBPath
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}

		db, err := repository.NewSQLiteDB(path)
		if err != nil {
			return fmt.Errorf("initialize database: %w", err)
		}
		defer db.Close()

		ctx := cmd.Context()
		if err := db.SaveCatalog(ctx, cat); err != nil {
			return err
		}

		// Read the tables back so the summary reflects what landed on disk.
		profiles, err := db.ListProfiles(ctx)
		if err != nil {
			return err
		}
		points, err := db.ListTimeSeries(ctx)
		if err != nil {
			return err
		}
		impact, err := db.ListEconomicImpact(ctx)
		if err != nil {
			return err
		}
		markers, err := db.ListMarkers(ctx, repository.Filter{})
		if err != nil {
			return err
		}
		slog.Info("catalog exported",
			"path", path,
			"categories", len(profiles),
			"periods", len(points),
			"impact_entries", len(impact),
			"markers", len(markers),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "database file (default from EXPORT_DB_PATH)")
}

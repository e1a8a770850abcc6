package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mr1hm/go-disaster-hub/internal/catalog"
	"github.com/mr1hm/go-disaster-hub/internal/config"
	"github.com/mr1hm/go-disaster-hub/internal/logging"
)

var (
	cfg         *config.Config
	catalogPath string
)

var rootCmd = &cobra.Command{
	Use:   "disasterhub",
	Short: "DisasterHub natural disaster research portal",
	Long: `DisasterHub serves a research portal on natural disasters: per-category
reference pages, yearly statistics, recent events on a world map and
research summaries. Without a subcommand it runs the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("catalog") {
			cfg.Catalog.Path = catalogPath
		}
		logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog YAML file (default is the embedded catalog)")
	rootCmd.AddCommand(serveCmd, tuiCmd, exportCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

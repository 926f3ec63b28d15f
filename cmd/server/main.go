package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"catalog/internal/config"
	mydb "catalog/internal/db"
	"catalog/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog API: products, categories, posts",
	Long: `Catalog API server and tools.

Commands:
  serve    - start the HTTP API
  migrate  - create or update the database schema
  seed     - add default post types and the admin user
  import   - send a CSV/XLSX file to a running server`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, importCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap: конфиг, логгер и база — общее для serve/migrate/seed
func bootstrap() (*config.Config, zerolog.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	log := logger.New(cfg.LogLevel, !cfg.IsProduction())
	if err := cfg.RequireDSN(); err != nil {
		return nil, log, nil, err
	}
	db, err := mydb.Open(cfg.DbDSN, cfg.LogLevel == "debug")
	if err != nil {
		return nil, log, nil, err
	}
	return cfg, log, db, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		if err := mydb.Migrate(cmd.Context(), db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info().Msg("schema is up to date")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add default post types and the admin user",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		if err := mydb.Seed(cmd.Context(), db); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		log.Info().Str("admin", mydb.AdminEmail).Msg("seed completed")
		return nil
	},
}

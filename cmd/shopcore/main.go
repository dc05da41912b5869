// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the Shopcore
// application using the Cobra library. It defines the root command,
// subcommands (serve, migrate, maintenance, backup, restore, audit),
// flags, and the main entry point for execution.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shopcore/shopcore/internal/auth"
	"github.com/shopcore/shopcore/internal/cache"
	"github.com/shopcore/shopcore/internal/config"
	"github.com/shopcore/shopcore/internal/db"
	"github.com/shopcore/shopcore/internal/httpapi"
	"github.com/shopcore/shopcore/internal/logging"
)

var version = "dev" // this will be set by the linker

var (
	cfgFile string
	appCfg  config.Config
)

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

// configDefaults are used when a key is not set in the config file,
// the environment or on the command line.
var configDefaults = map[string]any{
	"database.type":           "sqlite",
	"database.dsn":            "./shopcore.db",
	"server.port":             8000,
	"redis.enabled":           false,
	"redis.addr":              "localhost:6379",
	"redis.ttl_seconds":       60,
	"auth.access_ttl_minutes": 30,
	"auth.refresh_ttl_hours":  168,
}

func init() {
	rootCmd = newRootCmd()
}

// newRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shopcore",
		Short: "Shopcore is an e-commerce storefront API.",
		Long: `Shopcore serves a JSON API for users, categories, products and
reviews over a relational database. The database schema is managed through
embedded versioned migrations; running any command brings the schema to the
latest revision first.

Running without a subcommand starts the HTTP server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig[config.Config](cmd, configDefaults, &cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			applyFlagOverrides(cmd, &cfg)
			appCfg = cfg

			logging.SetDebug(cfg.Debug)
			db.SetDebug(cfg.Debug)

			// Initialize the database for all commands. This also applies
			// any pending migrations.
			if err := db.InitDB(cfg.Database.Type, cfg.Database.DSN); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// The database is already initialized by PersistentPreRunE.
			return runServe()
		},
	}

	cmd.AddCommand(serveCmd)
	cmd.AddCommand(migrateCmd)
	cmd.AddCommand(maintenanceCmd)
	cmd.AddCommand(backupCmd)
	cmd.AddCommand(restoreCmd)
	cmd.AddCommand(auditCmd)
	cmd.AddCommand(configCmd)

	cmd.Version = version

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./shopcore.yaml)")
	cmd.PersistentFlags().String("db-type", "sqlite", "Database type (sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("db-dsn", "./shopcore.db", "Database connection string (DSN)")
	cmd.PersistentFlags().Int("port", 8000, "HTTP listen port")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return cmd
}

// applyFlagOverrides maps renamed CLI flags onto their config keys. Flags win
// over file and environment values, but only when explicitly set.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if f := flags.Lookup("db-type"); f != nil && f.Changed {
		cfg.Database.Type = f.Value.String()
	}
	if f := flags.Lookup("db-dsn"); f != nil && f.Changed {
		cfg.Database.DSN = f.Value.String()
	}
	if f := flags.Lookup("port"); f != nil && f.Changed {
		if port, err := flags.GetInt("port"); err == nil {
			cfg.Server.Port = port
		}
	}
	if f := flags.Lookup("debug"); f != nil && f.Changed {
		if debug, err := flags.GetBool("debug"); err == nil {
			cfg.Debug = debug
		}
	}
}

// serveCmd represents the 'serve' command, the default behavior of the binary.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	if !db.IsInitialized() {
		return fmt.Errorf("database is not initialized")
	}
	if appCfg.Auth.SecretKey == "" {
		return fmt.Errorf("auth.secret_key is required (set SHOPCORE_AUTH_SECRET_KEY or the config file)")
	}

	tokens, err := auth.NewManager(
		appCfg.Auth.SecretKey,
		time.Duration(appCfg.Auth.AccessTTLMinutes)*time.Minute,
		time.Duration(appCfg.Auth.RefreshTTLHours)*time.Hour,
	)
	if err != nil {
		return err
	}

	var catalog *cache.Catalog
	if appCfg.Redis.Enabled {
		catalog = cache.NewCatalog(
			appCfg.Redis.Addr,
			appCfg.Redis.Password,
			appCfg.Redis.DB,
			time.Duration(appCfg.Redis.TTLSeconds)*time.Second,
		)
		defer func() { _ = catalog.Close() }()
		logging.Infof("catalog cache enabled at %s", appCfg.Redis.Addr)
	}

	server := httpapi.NewServer(db.DefaultStore(), tokens, catalog, appCfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.Start(ctx)
}

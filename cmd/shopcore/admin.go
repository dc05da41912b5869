// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopcore/shopcore/internal/backup"
	"github.com/shopcore/shopcore/internal/db"
	"github.com/shopcore/shopcore/internal/logging"
)

// migrateCmd applies pending schema migrations and exits. Migrations already
// run as part of database initialization, so this command exists for
// deployments that want a separate migration step.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		// PersistentPreRunE has already migrated the schema.
		logging.Infof("database schema is up to date")
		return nil
	},
}

// maintenanceCmd runs engine-specific housekeeping (VACUUM and friends).
var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Run database maintenance tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Infof("running maintenance on %s database", appCfg.Database.Type)
		if err := db.RunDBMaintenance(appCfg.Database.Type, appCfg.Database.DSN); err != nil {
			return fmt.Errorf("maintenance failed: %w", err)
		}
		logging.Infof("maintenance complete")
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Export all data to a YAML backup file (gzip when the name ends in .gz)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := db.ExportDataForBackup()
		if err != nil {
			return fmt.Errorf("failed to export data: %w", err)
		}
		if err := backup.WriteFile(args[0], data); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
		logging.Infof("backup written to %s (%d users, %d categories, %d products, %d reviews)",
			args[0], len(data.Users), len(data.Categories), len(data.Products), len(data.Reviews))
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace all data with the contents of a backup file",
	Long: `Restore wipes every table and re-imports the contents of the given
backup file in a single transaction. Row identifiers are preserved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := backup.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read backup: %w", err)
		}
		if err := db.ImportDataFromBackup(data); err != nil {
			return fmt.Errorf("failed to import data: %w", err)
		}
		logging.Infof("restored %d users, %d categories, %d products, %d reviews from %s",
			len(data.Users), len(data.Categories), len(data.Products), len(data.Reviews), args[0])
		return nil
	},
}

// auditCmd prints the audit trail, newest entries first.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := db.GetAllAuditLogEntries()
		if err != nil {
			return fmt.Errorf("failed to read audit log: %w", err)
		}
		for _, e := range entries {
			fmt.Printf("%s  %-15s  %-20s  %s\n", e.Timestamp, e.Username, e.Action, e.Details)
		}
		return nil
	},
}

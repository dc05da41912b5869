// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopcore/shopcore/internal/config"
	"github.com/shopcore/shopcore/internal/logging"
)

// configCmd groups configuration management. It overrides the root
// PersistentPreRunE so no database is opened just to write a config file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig[config.Config](cmd, configDefaults, &cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		applyFlagOverrides(cmd, &cfg)
		appCfg = cfg
		logging.SetDebug(cfg.Debug)
		return nil
	},
}

// configInitCmd writes the resolved configuration to the standard location,
// giving deployments a commented starting point instead of bare defaults.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the resolved configuration to the standard location",
	Long: `Init resolves the configuration the same way the server does (defaults,
config file, SHOPCORE_* environment, flags) and writes the result as
shopcore.yaml to the user config directory, or to the system directory
with --system.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		system, err := cmd.Flags().GetBool("system")
		if err != nil {
			return err
		}
		if err := config.WriteConfigFile(&appCfg, system); err != nil {
			return fmt.Errorf("failed to write configuration: %w", err)
		}
		logging.Infof("configuration written (system=%v)", system)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("system", false, "Write to the system-wide location instead of the user one")
	configCmd.AddCommand(configInitCmd)
}

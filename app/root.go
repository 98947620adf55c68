// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/benevole/benevole/internal/config"
	"github.com/benevole/benevole/internal/logger"
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Directory holding main.toml")
}

var (
	configPath string // Path to the configuration directory

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "benevole",
		Short: "Benevole is the backend of a volunteer management platform",
		Long: `Benevole is the backend of a volunteer management platform.
It serves a JSON API protected by roles and permissions carried in signed bearer tokens.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

// loadConfig reads the configuration and initializes the logger.
func loadConfig() error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err //nolint:wrapcheck
	}

	return logger.Init(cfg.Log) //nolint:wrapcheck
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

package app

import (
	"github.com/spf13/cobra"

	"github.com/benevole/benevole/internal/daemon"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")
	startCmd.Flags().IntVarP(&port, "port", "p", 0, "Listen on this port instead of webserver.port")

	rootCmd.AddCommand(startCmd)
}

var (
	devMode bool
	port    int

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the benevole web service",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if err := loadConfig(); err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			if port > 0 {
				cfg.Webserver.Port = port
			}

			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			d, err := daemon.New(&cfg)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return d.Start()
		},
	}
)

package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/benevole/benevole/internal/daemon"
)

func init() { //nolint: gochecknoinits
	seedCmd.Flags().BoolVar(&seedAccounts, "accounts", false, "Also create one account per default role")

	rootCmd.AddCommand(seedCmd)
}

var (
	seedAccounts bool

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Migrate the database and create the default permission catalog and roles",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			db, err := daemon.OpenDB(&cfg)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if err = daemon.Migrate(db); err != nil {
				return err //nolint:wrapcheck
			}

			cfg.Seed.Enabled = true
			cfg.Seed.Accounts = cfg.Seed.Accounts || seedAccounts

			if err = daemon.Seed(&cfg, db); err != nil {
				return err //nolint:wrapcheck
			}

			log.Info().Str("engine", cfg.DB.GormEngine).Msg("seed finished")

			return nil
		},
	}
)

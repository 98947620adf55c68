package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/config"
	"github.com/benevole/benevole/internal/db/seed"
	"github.com/benevole/benevole/internal/secret"
)

// Seed creates the default catalog, the role hierarchy and, if configured, one account per role.
// Without configured password the accounts created by this run get a generated one, which is logged once.
func Seed(cfg *config.Config, db *gorm.DB) error {
	seedCfg := cfg.Seed

	if seedCfg.Enabled && seedCfg.Accounts && seedCfg.Password == "" {
		pw, err := secret.Password()
		if err != nil {
			return fmt.Errorf("generate seed password: %w", err)
		}

		seedCfg.Password = pw

		log.Warn().Str("password", pw).Msg("no seed password configured, new default accounts use a generated one")
	}

	return seed.Run(seedCfg, db) //nolint:wrapcheck
}

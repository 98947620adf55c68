// Package seed bootstraps the permission catalog, the default roles and the demo accounts.
package seed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/config"
	"github.com/benevole/benevole/internal/db/controller/parent"
	"github.com/benevole/benevole/internal/db/controller/permission"
	"github.com/benevole/benevole/internal/db/controller/role"
	"github.com/benevole/benevole/internal/db/controller/user"
	"github.com/benevole/benevole/internal/db/models"
)

// ErrPasswordEmpty is returned when accounts are requested without password.
var ErrPasswordEmpty = errors.New("seed password cannot be empty")

// Run seeds db as configured by cfg. It can be run on every start.
func Run(cfg config.Seed, db *gorm.DB) error {
	if !cfg.Enabled {
		log.Debug().Msg("seed disabled")
		return nil
	}

	if err := Catalog(db); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	if !cfg.Accounts {
		return nil
	}

	if err := Accounts(db, cfg.Password, cfg.EmailDomain); err != nil {
		return fmt.Errorf("seed accounts: %w", err)
	}

	return nil
}

// Catalog creates the missing parents, permissions and default roles.
// Existing entries are left as they are, so changes made by administrators survive.
func Catalog(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		created := 0

		for _, entry := range auth.Catalog {
			p, err := parent.GetByName(tx, entry.Parent)
			if errors.Is(err, parent.ErrParentNotFound) {
				p, err = parent.Create(tx, entry.Parent)
			}

			if err != nil {
				return fmt.Errorf("parent %q: %w", entry.Parent, err)
			}

			for _, name := range entry.Permissions {
				_, err = permission.GetByName(tx, name)
				if errors.Is(err, permission.ErrPermissionNotFound) {
					_, err = permission.Create(tx, name, p.ID)
					created++
				}

				if err != nil {
					return fmt.Errorf("permission %q: %w", name, err)
				}
			}
		}

		for _, dr := range auth.DefaultRoles() {
			if err := defaultRole(tx, dr); err != nil {
				return err
			}
		}

		log.Info().Int("permissions_created", created).Msg("permission catalog seeded")

		return nil
	})
}

func defaultRole(tx *gorm.DB, dr auth.DefaultRole) error {
	_, err := role.GetByName(tx, dr.Name)
	if err == nil {
		return nil
	}

	if !errors.Is(err, role.ErrRoleNotFound) {
		return fmt.Errorf("role %q: %w", dr.Name, err)
	}

	permissions, err := permission.ListByNames(tx, dr.Permissions)
	if err != nil {
		return err
	}

	ids := make([]uint, 0, len(permissions))
	for _, p := range permissions {
		ids = append(ids, p.ID)
	}

	if _, err = role.Create(tx, dr.Name, ids); err != nil {
		return fmt.Errorf("role %q: %w", dr.Name, err)
	}

	log.Info().Str("role", dr.Name).Int("permissions", len(ids)).Msg("default role created")

	return nil
}

// AccountEmail returns the address of the demo account holding roleName.
// Blanks are dropped from the local part.
func AccountEmail(roleName, domain string) string {
	return strings.ReplaceAll(roleName, " ", "") + "@" + domain
}

// Accounts creates one enabled account per default role, named AccountEmail(role, domain).
// Existing accounts are skipped.
func Accounts(db *gorm.DB, password, domain string) error {
	if password == "" {
		return ErrPasswordEmpty
	}

	for _, dr := range auth.DefaultRoles() {
		email := AccountEmail(dr.Name, domain)

		_, err := user.GetByEmail(db, email)
		if err == nil {
			continue
		}

		if !errors.Is(err, user.ErrUserNotFound) {
			return err
		}

		r, err := role.GetByName(db, dr.Name)
		if err != nil {
			return fmt.Errorf("role %q: %w", dr.Name, err)
		}

		hash, err := models.HashPassword(password)
		if err != nil {
			return err
		}

		u, err := user.Create(db, &models.User{
			Email:    email,
			Username: dr.Name,
			Password: hash,
			Enabled:  true,
			Roles:    []models.Role{*r},
		})
		if err != nil {
			return fmt.Errorf("account %q: %w", email, err)
		}

		log.Info().Str("user_id", u.ID.String()).Str("email", email).Msg("demo account created")
	}

	return nil
}

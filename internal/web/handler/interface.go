// Package handler holds what the JSON handlers below it share: the service
// interface, request helpers and the uniform error envelope.
package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/config"
)

// Service is the interface for a web handler service.
// Init registers the routes of the handler together with their access requirements.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service)
}

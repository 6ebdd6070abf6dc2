// Package testutils provides test-only API endpoints.
// These routes are only registered when ENVIRONMENT=test.
package testutils

import (
	"github.com/brandkeep/brandkeep/pkg/brands"
	"github.com/brandkeep/brandkeep/pkg/i18n"
	"github.com/brandkeep/brandkeep/pkg/roles"
	"github.com/brandkeep/brandkeep/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers test-only routes.
// These endpoints should ONLY be registered in test environments.
func RegisterRoutes(e *echo.Echo, db *bun.DB, localizer *i18n.Localizer) {
	h := &handler{
		db:           db,
		roleStore:    roles.NewStore(db, localizer),
		userService:  users.NewService(db),
		brandService: brands.NewService(db, localizer),
	}

	test := e.Group("/test")
	test.POST("/users", h.createUser)
	test.DELETE("/users", h.deleteAllUsers)
	test.POST("/brands", h.createBrands)
	test.DELETE("/brands", h.deleteAllBrands)
}

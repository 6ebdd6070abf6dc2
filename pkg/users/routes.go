package users

import (
	"github.com/brandkeep/brandkeep/pkg/auth"
	"github.com/brandkeep/brandkeep/pkg/permissions"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all user routes and returns the service so that
// role management can check memberships through it.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	userService := NewService(db)

	h := &handler{
		userService: userService,
	}

	users := e.Group("/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("", h.list, authMiddleware.RequirePermission(permissions.UsersView))
	users.GET("/:id", h.retrieve, authMiddleware.RequirePermission(permissions.UsersView))
	users.POST("", h.create, authMiddleware.RequirePermission(permissions.UsersCreate))

	return userService
}

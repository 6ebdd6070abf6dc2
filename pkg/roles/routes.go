package roles

import (
	"github.com/brandkeep/brandkeep/pkg/auth"
	"github.com/brandkeep/brandkeep/pkg/i18n"
	"github.com/brandkeep/brandkeep/pkg/permissions"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all role routes, including the roles of a user.
func RegisterRoutes(e *echo.Echo, db *bun.DB, users UserStore, localizer *i18n.Localizer, authMiddleware *auth.Middleware) {
	roleService := NewService(db, users, localizer)

	h := &handler{
		roleService: roleService,
	}

	roles := e.Group("/roles")
	roles.Use(authMiddleware.Authenticate)

	roles.GET("", h.list, authMiddleware.RequirePermission(permissions.RolesView))
	roles.GET("/exists", h.nameExists, authMiddleware.RequirePermission(permissions.RolesView))
	roles.GET("/:id", h.retrieve, authMiddleware.RequirePermission(permissions.RolesView))
	roles.GET("/:id/permissions", h.retrievePermissions, authMiddleware.RequirePermission(permissions.RoleClaimsView))
	roles.POST("", h.upsert)
	roles.DELETE("/:id", h.delete, authMiddleware.RequirePermission(permissions.RolesDelete))
	roles.PUT("/:id/permissions", h.updatePermissions, authMiddleware.RequirePermission(permissions.RoleClaimsEdit))

	e.GET("/users/:id/roles", h.listForUser, authMiddleware.Authenticate, authMiddleware.RequirePermission(permissions.UserRolesView))
}

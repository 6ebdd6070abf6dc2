package brands

import (
	"github.com/brandkeep/brandkeep/pkg/auth"
	"github.com/brandkeep/brandkeep/pkg/i18n"
	"github.com/brandkeep/brandkeep/pkg/permissions"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers brand routes on a group that already
// authenticates its requests.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, localizer *i18n.Localizer, authMiddleware *auth.Middleware) {
	brandService := NewService(db, localizer)

	h := &handler{
		brandService: brandService,
	}

	g.POST("/search", h.search, authMiddleware.RequirePermission(permissions.BrandsSearch))
	g.GET("/:id", h.retrieve, authMiddleware.RequirePermission(permissions.BrandsView))
	g.POST("", h.create, authMiddleware.RequirePermission(permissions.BrandsCreate))
	g.PATCH("/:id", h.update, authMiddleware.RequirePermission(permissions.BrandsUpdate))
	g.DELETE("/:id", h.delete, authMiddleware.RequirePermission(permissions.BrandsDelete))
}

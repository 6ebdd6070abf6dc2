package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/brandkeep/brandkeep/pkg/auth"
	"github.com/brandkeep/brandkeep/pkg/binder"
	"github.com/brandkeep/brandkeep/pkg/brands"
	"github.com/brandkeep/brandkeep/pkg/config"
	"github.com/brandkeep/brandkeep/pkg/database"
	"github.com/brandkeep/brandkeep/pkg/errcodes"
	"github.com/brandkeep/brandkeep/pkg/i18n"
	"github.com/brandkeep/brandkeep/pkg/roles"
	"github.com/brandkeep/brandkeep/pkg/testutils"
	"github.com/brandkeep/brandkeep/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"
)

func New(cfg *config.Config, db *bun.DB, localizer *i18n.Localizer) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimitPerSecond))))
	e.Use(i18n.Middleware())
	if cfg.DatabaseDebug {
		e.Use(queryLogging)
	}

	health.RegisterRoutes(e)

	authMiddleware := auth.RegisterRoutes(e, db, cfg.JWTSecret)

	// Role management checks memberships through the user service.
	userService := users.RegisterRoutes(e, db, authMiddleware)
	roles.RegisterRoutes(e, db, userService, localizer, authMiddleware)

	brandsGroup := e.Group("/brands")
	brandsGroup.Use(authMiddleware.Authenticate)
	brands.RegisterRoutesWithGroup(brandsGroup, db, localizer, authMiddleware)

	if cfg.Environment == config.EnvironmentTest {
		testutils.RegisterRoutes(e, db, localizer)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// queryLogging turns on query logging for every request.
func queryLogging(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		c.SetRequest(req.WithContext(database.WithLogging(req.Context())))
		return next(c)
	}
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}

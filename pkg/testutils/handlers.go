package testutils

import (
	"net/http"

	"github.com/brandkeep/brandkeep/pkg/brands"
	"github.com/brandkeep/brandkeep/pkg/models"
	"github.com/brandkeep/brandkeep/pkg/permissions"
	"github.com/brandkeep/brandkeep/pkg/roles"
	"github.com/brandkeep/brandkeep/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type handler struct {
	db           *bun.DB
	roleStore    roles.Store
	userService  *users.Service
	brandService *brands.Service
}

// createUserRequest is the request body for creating a test user.
type createUserRequest struct {
	Username string   `json:"username" validate:"required"`
	Password string   `json:"password" validate:"required"`
	Email    *string  `json:"email"`
	Roles    []string `json:"roles"`
}

// createUserResponse is the response body for creating a test user.
type createUserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// createUser creates a test user, in the Admin role unless roles are given.
// POST /test/users.
func (h *handler) createUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if len(req.Roles) == 0 {
		req.Roles = []string{permissions.RoleAdmin}
	}

	roleIDs := make([]string, 0, len(req.Roles))
	for _, name := range req.Roles {
		role, err := h.roleStore.FindByName(ctx, name)
		if err != nil {
			return errors.Wrapf(err, "failed to get role %s", name)
		}
		roleIDs = append(roleIDs, role.ID)
	}

	user, err := h.userService.Create(ctx, users.CreateUserOptions{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		RoleIDs:  roleIDs,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createUserResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// deletedResponse is the response body for the bulk deletes.
type deletedResponse struct {
	Deleted int `json:"deleted"`
}

// deleteAllUsers deletes all users from the database.
// DELETE /test/users.
func (h *handler) deleteAllUsers(c echo.Context) error {
	ctx := c.Request().Context()

	// Delete role assignments first (foreign key constraint)
	_, err := h.db.NewDelete().
		Model((*models.UserRole)(nil)).
		Where("1=1").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to delete user roles")
	}

	result, err := h.db.NewDelete().
		Model((*models.User)(nil)).
		Where("1=1").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to delete users")
	}

	deleted, _ := result.RowsAffected()

	return c.JSON(http.StatusOK, deletedResponse{
		Deleted: int(deleted),
	})
}

// createBrandsRequest is the request body for seeding brands.
type createBrandsRequest struct {
	Names []string `json:"names" validate:"required,min=1,dive,required"`
}

// createBrands seeds one brand per name.
// POST /test/brands.
func (h *handler) createBrands(c echo.Context) error {
	ctx := c.Request().Context()

	var req createBrandsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	created := make([]*models.Brand, 0, len(req.Names))
	for _, name := range req.Names {
		brand, err := h.brandService.CreateBrand(ctx, brands.CreateBrandOptions{Name: name})
		if err != nil {
			return errors.Wrap(err, "failed to create brand")
		}
		created = append(created, brand)
	}

	return c.JSON(http.StatusCreated, created)
}

// deleteAllBrands deletes all brands from the database.
// DELETE /test/brands.
func (h *handler) deleteAllBrands(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.db.NewDelete().
		Model((*models.Brand)(nil)).
		Where("1=1").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to delete brands")
	}

	deleted, _ := result.RowsAffected()

	return c.JSON(http.StatusOK, deletedResponse{
		Deleted: int(deleted),
	})
}

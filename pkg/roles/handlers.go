package roles

import (
	"net/http"

	"github.com/brandkeep/brandkeep/pkg/auth"
	"github.com/brandkeep/brandkeep/pkg/errcodes"
	"github.com/brandkeep/brandkeep/pkg/permissions"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	roleService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	roles, err := h.roleService.List(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, roles))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	role, err := h.roleService.Retrieve(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, role))
}

func (h *handler) retrievePermissions(c echo.Context) error {
	ctx := c.Request().Context()

	role, err := h.roleService.RetrieveWithPermissions(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, role))
}

func (h *handler) listForUser(c echo.Context) error {
	ctx := c.Request().Context()

	roles, err := h.roleService.ListForUser(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, roles))
}

func (h *handler) nameExists(c echo.Context) error {
	ctx := c.Request().Context()

	params := NameExistsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	exists, err := h.roleService.NameExists(ctx, params.Name, params.ExcludeID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]bool{"exists": exists}))
}

func (h *handler) upsert(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpsertRolePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// Registering and editing are guarded by different permissions, and which
	// one applies depends on the payload.
	user, ok := auth.UserFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}
	required := permissions.RolesUpdate
	if params.ID == "" {
		required = permissions.RolesCreate
	}
	if !user.HasPermission(required) {
		return errcodes.Forbidden("Using " + required)
	}

	msg, err := h.roleService.Upsert(ctx, UpsertRoleOptions(params))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, MessageResponse{Message: msg}))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	msg, err := h.roleService.Delete(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, MessageResponse{Message: msg}))
}

func (h *handler) updatePermissions(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdatePermissionsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, ok := auth.UserFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	msg, err := h.roleService.UpdatePermissions(ctx, UpdatePermissionsOptions{
		RoleID:        c.Param("id"),
		Permissions:   params.Permissions,
		CurrentUserID: user.ID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, MessageResponse{Message: msg}))
}

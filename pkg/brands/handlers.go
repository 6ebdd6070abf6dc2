package brands

import (
	"net/http"
	"strings"

	"github.com/brandkeep/brandkeep/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	brandService *Service
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()

	params := SearchBrandsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	page, err := h.brandService.Search(ctx, SearchBrandsOptions{
		Filter: params.Filter,
		Name:   params.Name,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, page))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	brand, err := h.brandService.RetrieveBrand(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, brand))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBrandPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	brand, err := h.brandService.CreateBrand(ctx, CreateBrandOptions{
		Name:        params.Name,
		Description: params.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, brand))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateBrandPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	brand, err := h.brandService.RetrieveBrand(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateBrandOptions{}
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return errcodes.ValidationError("Brand name cannot be empty")
		}
		if name != brand.Name {
			brand.Name = name
			opts.Columns = append(opts.Columns, "name")
		}
	}
	if params.Description != nil && *params.Description != brand.Description {
		brand.Description = *params.Description
		opts.Columns = append(opts.Columns, "description")
	}

	if err := h.brandService.UpdateBrand(ctx, brand, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, brand))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.brandService.DeleteBrand(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

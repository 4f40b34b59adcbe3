package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Diva-jaw/Frontend--sub001/core/catalog"
)

type catalogApi struct {
	catalog *catalog.Catalog
}

func registerCatalogAPI(g *echo.Group, cat *catalog.Catalog) {
	api := catalogApi{catalog: cat}

	cg := g.Group("/catalog")
	cg.GET("", api.list)
	cg.GET("/:category", api.retrieve)
}

func (api *catalogApi) list(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.catalog.Categories())
}

func (api *catalogApi) retrieve(ctx echo.Context) error {
	name := ctx.Param("category")
	cat, err := api.catalog.Category(name)
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return categoryNotFound(api.catalog, name)
		}
		return errors.Wrap(err, "finding category")
	}
	return ctx.JSON(http.StatusOK, cat)
}

func categoryNotFound(cat *catalog.Catalog, name string) error {
	suggestions := cat.Suggest(name)
	if suggestions == nil {
		suggestions = []string{}
	}
	return echo.NewHTTPError(http.StatusNotFound, echo.Map{
		"error":       "category not found",
		"suggestions": suggestions,
	})
}

package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/catalog-api/internal/core/ports"
)

// HeaderCatalogTier names the tier that answered a catalog request.
const HeaderCatalogTier = "X-Catalog-Tier"

// CacheOptions controls the Cache-Control header on public catalog responses.
type CacheOptions struct {
	MaxAge               time.Duration
	StaleWhileRevalidate time.Duration
}

func (o CacheOptions) header() string {
	return fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d",
		int(o.MaxAge.Seconds()), int(o.StaleWhileRevalidate.Seconds()))
}

// CatalogHandler serves the localized catalog.
type CatalogHandler struct {
	catalog ports.CatalogService
	cache   CacheOptions
}

func NewCatalogHandler(catalog ports.CatalogService, cache CacheOptions) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, cache: cache}
}

// List handles GET /api/catalog.
//
// @Summary      Get the catalog for a language
// @Tags         catalog
// @Produce      json
// @Param        lang  query     string  true  "Language code (e.g. en)"
// @Success      200   {object}  catalogResponse
// @Failure      400   {object}  errorBody
// @Failure      503   {object}  errorBody
// @Router       /api/catalog [get]
func (h *CatalogHandler) List(c echo.Context) error {
	var q catalogQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid query"})
	}
	if err := c.Validate(&q); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}

	res, err := h.catalog.Resolve(c.Request().Context(), q.Lang)
	if err != nil {
		return err
	}

	h.setCacheHeaders(c, res.Tier)
	return c.JSON(http.StatusOK, catalogResponse{
		Data:  res.Records,
		Lang:  res.Lang,
		Count: len(res.Records),
	})
}

// Get handles GET /api/catalog/:id.
//
// @Summary      Get one catalog record
// @Tags         catalog
// @Produce      json
// @Param        id    path      string  true  "Record id"
// @Param        lang  query     string  true  "Language code"
// @Success      200   {object}  catalogRecordResponse
// @Failure      400   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Failure      503   {object}  errorBody
// @Router       /api/catalog/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	rec, err := h.catalog.Find(c.Request().Context(), c.QueryParam("lang"), c.Param("id"))
	if err != nil {
		return err
	}

	h.setCacheHeaders(c, "")
	return c.JSON(http.StatusOK, catalogRecordResponse{Data: *rec, Lang: rec.Lang})
}

// Refresh handles POST /api/admin/catalog/refresh.
//
// @Summary      Rebuild the cached catalog for a language
// @Tags         catalog
// @Produce      json
// @Security     SessionCookie
// @Security     BearerAuth
// @Param        lang  query     string  true  "Language code"
// @Success      200   {object}  refreshResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      503   {object}  errorBody
// @Router       /api/admin/catalog/refresh [post]
func (h *CatalogHandler) Refresh(c echo.Context) error {
	if _, err := ctxRole(c); err != nil {
		return err
	}

	res, err := h.catalog.Refresh(c.Request().Context(), c.QueryParam("lang"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, refreshResponse{
		OK:    true,
		Lang:  res.Lang,
		Count: len(res.Records),
		Tier:  res.Tier,
	})
}

func (h *CatalogHandler) setCacheHeaders(c echo.Context, tier string) {
	c.Response().Header().Set("Cache-Control", h.cache.header())
	if tier != "" {
		c.Response().Header().Set(HeaderCatalogTier, tier)
	}
}

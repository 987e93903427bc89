package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/catalog-api/internal/core/domain"
	"github.com/openshelf/catalog-api/internal/core/ports"
)

// GalleryHandler serves the public gallery and its admin mutations.
type GalleryHandler struct {
	gallery ports.GalleryService
}

func NewGalleryHandler(gallery ports.GalleryService) *GalleryHandler {
	return &GalleryHandler{gallery: gallery}
}

// List handles GET /api/gallery.
//
// @Summary      List gallery items, newest first
// @Tags         gallery
// @Produce      json
// @Param        offset  query     int  false  "Items to skip"
// @Param        limit   query     int  false  "Page size (max 200)"
// @Success      200     {object}  galleryListResponse
// @Failure      400     {object}  errorBody
// @Router       /api/gallery [get]
func (h *GalleryHandler) List(c echo.Context) error {
	var q galleryListQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid query"})
	}
	if err := c.Validate(&q); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}

	items, total, err := h.gallery.List(c.Request().Context(), q.Offset, q.Limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, galleryListResponse{
		Items:  items,
		Count:  len(items),
		Total:  total,
		Offset: q.Offset,
	})
}

// Get handles GET /api/gallery/:id.
//
// @Summary      Get a gallery item
// @Tags         gallery
// @Produce      json
// @Param        id   path      string  true  "Item id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  errorBody
// @Router       /api/gallery/{id} [get]
func (h *GalleryHandler) Get(c echo.Context) error {
	item, err := h.gallery.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Add handles POST /api/gallery. The body is a flat JSON object; "id" is
// optional and generated when absent.
//
// @Summary      Add a gallery item
// @Tags         gallery
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Security     BearerAuth
// @Param        body  body      map[string]any  true  "Item fields"
// @Success      201   {object}  mutationResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      409   {object}  mutationResponse
// @Router       /api/gallery [post]
func (h *GalleryHandler) Add(c echo.Context) error {
	role, err := ctxRole(c)
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid payload"})
	}
	item, err := domain.NewGalleryItem(raw)
	if err != nil {
		return err
	}

	id, err := h.gallery.Add(c.Request().Context(), item, role)
	if err != nil {
		return conflictOr(c, err)
	}
	return c.JSON(http.StatusCreated, mutationResponse{OK: true, ID: id})
}

// Remove handles DELETE /api/gallery/:id.
//
// @Summary      Remove a gallery item
// @Tags         gallery
// @Produce      json
// @Security     SessionCookie
// @Security     BearerAuth
// @Param        id   path      string  true  "Item id"
// @Success      200  {object}  mutationResponse
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Failure      409  {object}  mutationResponse
// @Router       /api/gallery/{id} [delete]
func (h *GalleryHandler) Remove(c echo.Context) error {
	role, err := ctxRole(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if err := h.gallery.Remove(c.Request().Context(), id, role); err != nil {
		return conflictOr(c, err)
	}
	return c.JSON(http.StatusOK, mutationResponse{OK: true, ID: id})
}

// conflictOr renders an exhausted retry budget as an explicit 409 and hands
// every other error to the central error handler.
func conflictOr(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrIndexConflict) {
		status, msg, _ := ErrorStatus(err)
		return c.JSON(status, mutationResponse{OK: false, Error: msg})
	}
	return err
}

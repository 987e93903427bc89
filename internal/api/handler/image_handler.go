package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/openshelf/catalog-api/internal/core/ports"
)

type ImageHandler struct {
	images ports.ImageService
	log    zerolog.Logger
}

func NewImageHandler(images ports.ImageService, log zerolog.Logger) *ImageHandler {
	return &ImageHandler{images: images, log: log}
}

// Delete handles DELETE /api/images/:id and POST /api/images/delete. The id
// comes from the path, the query string, or a JSON body, in that order.
//
// @Summary      Delete a gallery image
// @Tags         images
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Security     BearerAuth
// @Param        id    path      string              false  "Image id"
// @Param        body  body      imageDeleteRequest  false  "Image id"
// @Success      200   {object}  mutationResponse
// @Failure      400   {object}  mutationResponse
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      409   {object}  mutationResponse
// @Failure      500   {object}  mutationResponse
// @Router       /api/images/{id} [delete]
// @Router       /api/images/delete [post]
func (h *ImageHandler) Delete(c echo.Context) error {
	role, err := ctxRole(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if id == "" {
		id = c.QueryParam("id")
	}
	if id == "" && c.Request().ContentLength != 0 {
		var req imageDeleteRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, mutationResponse{OK: false, Error: "invalid payload"})
		}
		id = req.ID
	}
	if id == "" {
		return c.JSON(http.StatusBadRequest, mutationResponse{OK: false, Error: "id is required"})
	}

	if err := h.images.Delete(c.Request().Context(), id, role); err != nil {
		status, msg, known := ErrorStatus(err)
		if !known {
			h.log.Error().Err(err).Str("id", id).Msg("image deletion failed")
		}
		return c.JSON(status, mutationResponse{OK: false, Error: msg})
	}
	return c.JSON(http.StatusOK, mutationResponse{OK: true, ID: id})
}


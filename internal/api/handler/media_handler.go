package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tell-platform/complaint-system/internal/api/metrics"
	"github.com/tell-platform/complaint-system/internal/api/response"
	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

const mediaFormField = "image"

// MediaHandler accepts image uploads and serves stored media.
type MediaHandler struct {
	media ports.MediaService
}

func NewMediaHandler(media ports.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// Upload handles POST /media/add.
//
// @Summary      Upload an image
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file  true  "PNG, JPEG, GIF or WebP, at most 5 MiB"
// @Success      201    {object}  response.Envelope{result=domain.Media}
// @Failure      400    {object}  response.Envelope
// @Failure      413    {object}  response.Envelope
// @Router       /media/add [post]
func (h *MediaHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile(mediaFormField)
	if err != nil {
		return domain.Invalid("%s is required", mediaFormField)
	}
	f, err := fh.Open()
	if err != nil {
		return domain.Invalid("unreadable upload")
	}
	defer f.Close()

	media, err := h.media.Upload(c.Request().Context(), fh.Filename, f, fh.Size)
	if err != nil {
		return err
	}

	metrics.MediaUploadsTotal.WithLabelValues(media.ContentType).Inc()
	return response.OK(c, http.StatusCreated, media, "Upload success")
}

// Serve handles GET /media/:filename.
//
// @Summary      Download a stored image
// @Tags         media
// @Produce      image/png,image/jpeg,image/gif,image/webp
// @Param        filename  path  string  true  "Stored file name"
// @Success      200
// @Failure      404  {object}  response.Envelope
// @Router       /media/{filename} [get]
func (h *MediaHandler) Serve(c echo.Context) error {
	rc, contentType, err := h.media.Open(c.Request().Context(), c.Param("filename"))
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=86400, immutable")
	return c.Stream(http.StatusOK, contentType, rc)
}

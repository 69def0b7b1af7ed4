package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shininglight/church-api/internal/models"
	"github.com/shininglight/church-api/internal/service"
	appErrors "github.com/shininglight/church-api/pkg/errors"
	"github.com/shininglight/church-api/pkg/response"
)

type mediaService interface {
	List(ctx context.Context, category string) ([]models.MediaItem, error)
	Create(ctx context.Context, req service.CreateMediaRequest, file *service.UploadedFile) (*models.MediaItem, error)
	Delete(ctx context.Context, id string) error
}

// UploadLimits constrains image uploads accepted by the media endpoints.
type UploadLimits struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// MediaHandler exposes gallery endpoints, public and admin.
type MediaHandler struct {
	service mediaService
	limits  UploadLimits
}

// NewMediaHandler builds a new handler.
func NewMediaHandler(service mediaService, limits UploadLimits) *MediaHandler {
	return &MediaHandler{service: service, limits: limits}
}

// List godoc
// @Summary List media items
// @Description Gallery items newest first, optionally filtered by category
// @Tags Media
// @Produce json
// @Param category query string false "Category filter (Worship, Events, Community, Sermons, Announcements)"
// @Success 200 {object} response.Envelope
// @Router /media [get]
func (h *MediaHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Create a media item
// @Description Image items are sent as multipart/form-data with a file part; Video and Text items as JSON
// @Tags Media
// @Accept json
// @Accept mpfd
// @Produce json
// @Param payload body service.CreateMediaRequest true "Media payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Router /admin/media [post]
func (h *MediaHandler) Create(c *gin.Context) {
	var req service.CreateMediaRequest
	var file *service.UploadedFile

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid media payload"))
			return
		}
		uploaded, err := h.readUpload(c)
		if err != nil {
			response.Error(c, err)
			return
		}
		file = uploaded
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid media payload"))
			return
		}
	}

	item, err := h.service.Create(c.Request.Context(), req, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Delete godoc
// @Summary Delete a media item
// @Description Removes the stored file best-effort, then the record
// @Tags Media
// @Param id path string true "Media item ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/media/{id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// readUpload extracts the optional file part, enforcing size and MIME limits
// before any byte reaches the file store.
func (h *MediaHandler) readUpload(c *gin.Context) (*service.UploadedFile, error) {
	header, err := c.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid file upload")
	}

	if h.limits.MaxFileSizeBytes > 0 && header.Size > h.limits.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrFileTooLarge, "uploaded file exceeds the size limit")
	}
	if len(h.limits.AllowedMIMEs) > 0 {
		contentType := header.Header.Get("Content-Type")
		if !mimeAllowed(contentType, h.limits.AllowedMIMEs) {
			return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, "unsupported file type "+contentType)
		}
	}

	src, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file")
	}

	return &service.UploadedFile{Name: header.Filename, Data: data}, nil
}

func mimeAllowed(contentType string, allowed []string) bool {
	for _, mime := range allowed {
		if strings.EqualFold(contentType, mime) {
			return true
		}
	}
	return false
}

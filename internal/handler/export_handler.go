package handler

import (
	"path/filepath"

	"github.com/gin-gonic/gin"

	appErrors "github.com/shininglight/church-api/pkg/errors"
	"github.com/shininglight/church-api/pkg/response"
)

type exportResolver interface {
	Resolve(token string) (string, error)
}

// ExportHandler serves generated export files via signed tokens.
type ExportHandler struct {
	service exportResolver
}

// NewExportHandler builds a new handler.
func NewExportHandler(service exportResolver) *ExportHandler {
	return &ExportHandler{service: service}
}

// Download godoc
// @Summary Download a generated export
// @Description Streams the export file named by a valid signed token
// @Tags Applications
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	path, err := h.service.Resolve(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

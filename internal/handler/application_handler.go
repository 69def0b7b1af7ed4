package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shininglight/church-api/internal/models"
	"github.com/shininglight/church-api/internal/service"
	appErrors "github.com/shininglight/church-api/pkg/errors"
	"github.com/shininglight/church-api/pkg/response"
)

type applicationService interface {
	Submit(ctx context.Context, req service.SubmitApplicationRequest) (*models.WorkerApplication, error)
	List(ctx context.Context) ([]models.WorkerApplication, error)
	Delete(ctx context.Context, id string) error
}

type applicationExportService interface {
	GenerateApplications(ctx context.Context, format string) (*service.ExportResult, error)
}

// ApplicationHandler exposes the public join form and admin review endpoints.
type ApplicationHandler struct {
	service applicationService
	exports applicationExportService
}

// NewApplicationHandler builds a new handler.
func NewApplicationHandler(service applicationService, exports applicationExportService) *ApplicationHandler {
	return &ApplicationHandler{service: service, exports: exports}
}

// Submit godoc
// @Summary Submit a volunteer application
// @Description Public join form; field-level validation errors are reported per field
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body service.SubmitApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req service.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}
	application, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, application)
}

// List godoc
// @Summary List volunteer applications
// @Description Applications for the dashboard, newest first
// @Tags Applications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	applications, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, applications, nil)
}

// Delete godoc
// @Summary Delete a volunteer application
// @Tags Applications
// @Param id path string true "Application ID"
// @Success 204 {object} response.Envelope
// @Router /admin/applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export volunteer applications
// @Description Renders the application list as CSV or PDF and returns a signed download token
// @Tags Applications
// @Produce json
// @Param format query string false "Export format: csv (default) or pdf"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/applications/export [get]
func (h *ApplicationHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	result, err := h.exports.GenerateApplications(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

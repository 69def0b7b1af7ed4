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

type newsService interface {
	List(ctx context.Context, limit int) ([]models.NewsPost, error)
	Create(ctx context.Context, req service.CreateNewsRequest) (*models.NewsPost, error)
	Update(ctx context.Context, id string, req service.UpdateNewsRequest) (*models.NewsPost, error)
	Delete(ctx context.Context, id string) error
}

// NewsHandler exposes news endpoints, public and admin.
type NewsHandler struct {
	service newsService
}

// NewNewsHandler builds a new handler.
func NewNewsHandler(service newsService) *NewsHandler {
	return &NewsHandler{service: service}
}

// List godoc
// @Summary List news posts
// @Description News posts, newest first
// @Tags News
// @Produce json
// @Param limit query int false "Maximum number of posts to return"
// @Success 200 {object} response.Envelope
// @Router /news [get]
func (h *NewsHandler) List(c *gin.Context) {
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		response.Error(c, err)
		return
	}
	posts, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posts, nil)
}

// Create godoc
// @Summary Create a news post
// @Tags News
// @Accept json
// @Produce json
// @Param payload body service.CreateNewsRequest true "News payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/news [post]
func (h *NewsHandler) Create(c *gin.Context) {
	var req service.CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid news payload"))
		return
	}
	post, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// Update godoc
// @Summary Update a news post
// @Tags News
// @Accept json
// @Produce json
// @Param id path string true "News post ID"
// @Param payload body service.UpdateNewsRequest true "News payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/news/{id} [put]
func (h *NewsHandler) Update(c *gin.Context) {
	var req service.UpdateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid news payload"))
		return
	}
	post, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, post, nil)
}

// Delete godoc
// @Summary Delete a news post
// @Tags News
// @Param id path string true "News post ID"
// @Success 204 {object} response.Envelope
// @Router /admin/news/{id} [delete]
func (h *NewsHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

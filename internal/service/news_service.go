package service

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shininglight/church-api/internal/models"
	appErrors "github.com/shininglight/church-api/pkg/errors"
)

const newsCachePattern = "news:*"

type newsRepository interface {
	List(ctx context.Context, limit int) ([]models.NewsPost, error)
	GetByID(ctx context.Context, id string) (*models.NewsPost, error)
	Create(ctx context.Context, post *models.NewsPost) error
	Update(ctx context.Context, post *models.NewsPost) error
	Delete(ctx context.Context, id string) error
}

// NewsService handles news listing and admin management.
type NewsService struct {
	repo      newsRepository
	cache     cacheReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNewsService constructs the service.
func NewNewsService(repo newsRepository, cache listCache, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *NewsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsService{repo: repo, cache: newCacheReader(cache, ttl, logger), validator: validate, logger: logger}
}

// CreateNewsRequest describes the create payload.
type CreateNewsRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=10000"`
}

// UpdateNewsRequest describes the full-overwrite update payload.
type UpdateNewsRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=10000"`
}

// List returns news posts newest first. A limit of zero returns all posts.
func (s *NewsService) List(ctx context.Context, limit int) ([]models.NewsPost, error) {
	key := "news:list"
	if limit > 0 {
		key += ":" + strconv.Itoa(limit)
	}
	var posts []models.NewsPost
	if s.cache.get(ctx, key, &posts) {
		return posts, nil
	}
	posts, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list news")
	}
	s.cache.set(ctx, key, posts)
	return posts, nil
}

// Create registers a new news post and invalidates the cached lists.
func (s *NewsService) Create(ctx context.Context, req CreateNewsRequest) (*models.NewsPost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fieldErrors(err)
	}
	post := &models.NewsPost{
		Title:   strings.TrimSpace(req.Title),
		Message: strings.TrimSpace(req.Message),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create news post")
	}
	s.cache.invalidate(ctx, newsCachePattern)
	return post, nil
}

// Update overwrites the title and message of the post matching id.
func (s *NewsService) Update(ctx context.Context, id string, req UpdateNewsRequest) (*models.NewsPost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fieldErrors(err)
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "news post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load news post")
	}
	existing.Title = strings.TrimSpace(req.Title)
	existing.Message = strings.TrimSpace(req.Message)
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update news post")
	}
	s.cache.invalidate(ctx, newsCachePattern)
	return existing, nil
}

// Delete removes a news post by id.
func (s *NewsService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete news post")
	}
	s.cache.invalidate(ctx, newsCachePattern)
	return nil
}

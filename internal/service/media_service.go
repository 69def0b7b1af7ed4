package service

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shininglight/church-api/internal/models"
	appErrors "github.com/shininglight/church-api/pkg/errors"
	"github.com/shininglight/church-api/pkg/storage"
)

const mediaCachePattern = "media:*"

type mediaRepository interface {
	List(ctx context.Context, category string) ([]models.MediaItem, error)
	GetByID(ctx context.Context, id string) (*models.MediaItem, error)
	Create(ctx context.Context, item *models.MediaItem) error
	Delete(ctx context.Context, id string) error
}

type fileStore interface {
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
	PublicURL(filename string) string
}

// UploadedFile carries an image upload received by the handler.
type UploadedFile struct {
	Name string
	Data []byte
}

// MediaService handles the media gallery: listing, uploads and deletion.
// Image files are stored before the row is inserted; a failed store aborts
// the creation, while a row-insert failure after a successful store leaves an
// orphaned file behind, which is accepted.
type MediaService struct {
	repo      mediaRepository
	store     fileStore
	cache     cacheReader
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewMediaService constructs the service.
func NewMediaService(repo mediaRepository, store fileStore, cache listCache, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *MediaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &MediaService{
		repo:      repo,
		store:     store,
		cache:     newCacheReader(cache, ttl, logger),
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
	svc.validator.RegisterValidation("mediatype", func(fl validator.FieldLevel) bool {
		switch models.MediaType(fl.Field().String()) {
		case models.MediaTypeImage, models.MediaTypeVideo, models.MediaTypeText:
			return true
		default:
			return false
		}
	})
	svc.validator.RegisterValidation("mediacategory", func(fl validator.FieldLevel) bool {
		return models.IsValidMediaCategory(fl.Field().String())
	})
	return svc
}

// CreateMediaRequest describes the create payload. VideoURL is consulted for
// Video items, TextContent for Text items; Image items carry the file
// separately.
type CreateMediaRequest struct {
	MediaType   string `json:"media_type" form:"media_type" validate:"required,mediatype"`
	Category    string `json:"category" form:"category" validate:"required,mediacategory"`
	VideoURL    string `json:"video_url" form:"video_url" validate:"omitempty,url,max=500"`
	TextContent string `json:"text_content" form:"text_content" validate:"omitempty,max=5000"`
}

// List returns media items newest first, optionally filtered by category.
func (s *MediaService) List(ctx context.Context, category string) ([]models.MediaItem, error) {
	if category != "" && !models.IsValidMediaCategory(category) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown category %q", category))
	}
	key := "media:list"
	if category != "" {
		key += ":" + category
	}
	var items []models.MediaItem
	if s.cache.get(ctx, key, &items) {
		return items, nil
	}
	items, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list media")
	}
	s.cache.set(ctx, key, items)
	return items, nil
}

// Create registers a media item. For Image items the file is stored first
// under uploads/<timestamp>.<ext> and the public URL is attached to the row
// only once the store succeeded.
func (s *MediaService) Create(ctx context.Context, req CreateMediaRequest, file *UploadedFile) (*models.MediaItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fieldErrors(err)
	}

	var content string
	switch models.MediaType(req.MediaType) {
	case models.MediaTypeImage:
		if file == nil || len(file.Data) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "an image file is required for Image media")
		}
		url, err := s.storeImage(file)
		if err != nil {
			return nil, err
		}
		content = url
	case models.MediaTypeVideo:
		if req.VideoURL == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "video_url is required for Video media")
		}
		content = strings.TrimSpace(req.VideoURL)
	case models.MediaTypeText:
		if strings.TrimSpace(req.TextContent) == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "text_content is required for Text media")
		}
		content = strings.TrimSpace(req.TextContent)
	}

	item, err := models.NewMediaItem(models.MediaType(req.MediaType), req.Category, content)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if item.ImageURL != nil {
			// The stored file has no referencing row now; accepted, but traceable.
			s.logger.Warn("orphaned upload after failed media insert", zap.String("url", *item.ImageURL))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create media item")
	}
	s.cache.invalidate(ctx, mediaCachePattern)
	return item, nil
}

// Delete removes a media item. When the item references a stored image the
// file is removed best-effort first; a file-store failure never blocks the
// row deletion.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "media item not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media item")
	}
	if item.ImageURL != nil && *item.ImageURL != "" {
		relPath := storage.RelativePath(*item.ImageURL)
		if err := s.store.Delete(relPath); err != nil {
			s.logger.Warn("failed to remove stored media file", zap.String("path", relPath), zap.Error(err))
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete media item")
	}
	s.cache.invalidate(ctx, mediaCachePattern)
	return nil
}

func (s *MediaService) storeImage(file *UploadedFile) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Name))
	if ext == "" {
		ext = ".bin"
	}
	relPath := fmt.Sprintf("uploads/%d%s", s.now().UnixMilli(), ext)
	if _, err := s.store.Save(relPath, file.Data); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store uploaded file")
	}
	return s.store.PublicURL(relPath), nil
}

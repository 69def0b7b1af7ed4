package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shininglight/church-api/internal/models"
)

// MediaRepository provides persistence for media gallery items.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository creates the repository.
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// List returns media items ordered by upload date descending, optionally
// filtered by category.
func (r *MediaRepository) List(ctx context.Context, category string) ([]models.MediaItem, error) {
	query := `SELECT id, media_type, category, image_url, video_url, text_content, date_uploaded
FROM media`
	args := []interface{}{}
	if category != "" {
		query += " WHERE category = $1"
		args = append(args, category)
	}
	query += " ORDER BY date_uploaded DESC"
	var items []models.MediaItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return items, nil
}

// GetByID returns a media item by identifier.
func (r *MediaRepository) GetByID(ctx context.Context, id string) (*models.MediaItem, error) {
	const query = `SELECT id, media_type, category, image_url, video_url, text_content, date_uploaded
FROM media WHERE id = $1`
	var item models.MediaItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new media item.
func (r *MediaRepository) Create(ctx context.Context, item *models.MediaItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.DateUploaded.IsZero() {
		item.DateUploaded = time.Now().UTC()
	}
	const query = `INSERT INTO media (id, media_type, category, image_url, video_url, text_content, date_uploaded)
VALUES (:id, :media_type, :category, :image_url, :video_url, :text_content, :date_uploaded)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create media item: %w", err)
	}
	return nil
}

// Delete removes a media item row. The backing stored file is handled by the
// service layer.
func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM media WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete media item: %w", err)
	}
	return nil
}

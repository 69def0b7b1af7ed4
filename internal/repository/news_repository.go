package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shininglight/church-api/internal/models"
)

// NewsRepository provides persistence for news posts.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository creates the repository.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// List returns news posts ordered by creation date descending.
// A limit <= 0 means no limit.
func (r *NewsRepository) List(ctx context.Context, limit int) ([]models.NewsPost, error) {
	query := `SELECT id, title, message, date_created, updated_at
FROM news
ORDER BY date_created DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	var posts []models.NewsPost
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return posts, nil
}

// GetByID returns a news post by identifier.
func (r *NewsRepository) GetByID(ctx context.Context, id string) (*models.NewsPost, error) {
	const query = `SELECT id, title, message, date_created, updated_at FROM news WHERE id = $1`
	var post models.NewsPost
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts a new news post.
func (r *NewsRepository) Create(ctx context.Context, post *models.NewsPost) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if post.DateCreated.IsZero() {
		post.DateCreated = now
	}
	post.UpdatedAt = now
	const query = `INSERT INTO news (id, title, message, date_created, updated_at)
VALUES (:id, :title, :message, :date_created, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("create news post: %w", err)
	}
	return nil
}

// Update overwrites the title and message of an existing news post.
func (r *NewsRepository) Update(ctx context.Context, post *models.NewsPost) error {
	post.UpdatedAt = time.Now().UTC()
	const query = `UPDATE news SET title = :title, message = :message, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("update news post: %w", err)
	}
	return nil
}

// Delete removes a news post.
func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM news WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete news post: %w", err)
	}
	return nil
}

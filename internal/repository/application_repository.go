package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shininglight/church-api/internal/models"
)

// ApplicationRepository provides persistence for worker applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// List returns applications ordered by submission date descending.
func (r *ApplicationRepository) List(ctx context.Context) ([]models.WorkerApplication, error) {
	const query = `SELECT id, full_name, email, phone_number, gender, age, departments, previous_experience, date_submitted
FROM worker_applications
ORDER BY date_submitted DESC`
	var applications []models.WorkerApplication
	if err := r.db.SelectContext(ctx, &applications, query); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return applications, nil
}

// GetByID returns an application by identifier.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.WorkerApplication, error) {
	const query = `SELECT id, full_name, email, phone_number, gender, age, departments, previous_experience, date_submitted
FROM worker_applications WHERE id = $1`
	var application models.WorkerApplication
	if err := r.db.GetContext(ctx, &application, query, id); err != nil {
		return nil, err
	}
	return &application, nil
}

// Create inserts a new application.
func (r *ApplicationRepository) Create(ctx context.Context, application *models.WorkerApplication) error {
	if application.ID == "" {
		application.ID = uuid.NewString()
	}
	if application.DateSubmitted.IsZero() {
		application.DateSubmitted = time.Now().UTC()
	}
	const query = `INSERT INTO worker_applications (id, full_name, email, phone_number, gender, age, departments, previous_experience, date_submitted)
VALUES (:id, :full_name, :email, :phone_number, :gender, :age, :departments, :previous_experience, :date_submitted)`
	if _, err := r.db.NamedExecContext(ctx, query, application); err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// Delete removes an application.
func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM worker_applications WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return nil
}

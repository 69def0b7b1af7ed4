package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shininglight/church-api/internal/models"
	appErrors "github.com/shininglight/church-api/pkg/errors"
)

const applicationCachePattern = "applications:*"

type applicationRepository interface {
	List(ctx context.Context) ([]models.WorkerApplication, error)
	Create(ctx context.Context, application *models.WorkerApplication) error
	Delete(ctx context.Context, id string) error
}

// ApplicationService handles the public join form and admin review of
// volunteer applications.
type ApplicationService struct {
	repo      applicationRepository
	cache     cacheReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewApplicationService constructs the service.
func NewApplicationService(repo applicationRepository, cache listCache, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *ApplicationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ApplicationService{repo: repo, cache: newCacheReader(cache, ttl, logger), validator: validate, logger: logger}
	svc.validator.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		return models.IsValidDepartment(fl.Field().String())
	})
	return svc
}

// SubmitApplicationRequest mirrors the join form schema. All checks are
// synchronous; a failing payload never reaches the repository.
type SubmitApplicationRequest struct {
	FullName    string   `json:"full_name" validate:"required,min=2,max=100"`
	Email       string   `json:"email" validate:"required,email,max=255"`
	Phone       string   `json:"phone" validate:"required,min=10,max=20"`
	Gender      string   `json:"gender" validate:"required,oneof=male female"`
	Age         *int     `json:"age" validate:"omitempty,min=1,max=120"`
	Departments []string `json:"departments" validate:"required,min=1,dive,department"`
	Experience  string   `json:"experience" validate:"omitempty,max=1000"`
}

// Submit validates and persists one application. Text fields are trimmed and
// the email lower-cased before insertion.
func (s *ApplicationService) Submit(ctx context.Context, req SubmitApplicationRequest) (*models.WorkerApplication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fieldErrors(err)
	}
	application := &models.WorkerApplication{
		FullName:           strings.TrimSpace(req.FullName),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:        strings.TrimSpace(req.Phone),
		Gender:             req.Gender,
		Age:                req.Age,
		Departments:        req.Departments,
		PreviousExperience: optionalText(req.Experience),
	}
	if err := s.repo.Create(ctx, application); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit application")
	}
	s.cache.invalidate(ctx, applicationCachePattern)
	return application, nil
}

// List returns all applications for the admin view, newest first.
func (s *ApplicationService) List(ctx context.Context) ([]models.WorkerApplication, error) {
	const key = "applications:list"
	var applications []models.WorkerApplication
	if s.cache.get(ctx, key, &applications) {
		return applications, nil
	}
	applications, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	s.cache.set(ctx, key, applications)
	return applications, nil
}

// Delete removes an application by id.
func (s *ApplicationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete application")
	}
	s.cache.invalidate(ctx, applicationCachePattern)
	return nil
}

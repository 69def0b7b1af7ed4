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

const eventCachePattern = "events:*"

type eventRepository interface {
	List(ctx context.Context) ([]models.Event, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

// EventService handles event listing and admin management.
type EventService struct {
	repo      eventRepository
	cache     cacheReader
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEventService constructs the service.
func NewEventService(repo eventRepository, cache listCache, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		repo:      repo,
		cache:     newCacheReader(cache, ttl, logger),
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateEventRequest describes the create payload.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	EventDate   string `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventTime   string `json:"event_time" validate:"required,datetime=15:04"`
	Location    string `json:"location" validate:"required,max=200"`
}

// UpdateEventRequest describes the full-overwrite update payload.
type UpdateEventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	EventDate   string `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventTime   string `json:"event_time" validate:"required,datetime=15:04"`
	Location    string `json:"location" validate:"required,max=200"`
}

// List returns all events for the admin view, event date ascending, each
// annotated with the derived is_today flag.
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	const key = "events:admin"
	var events []models.Event
	if !s.cache.get(ctx, key, &events) {
		var err error
		events, err = s.repo.List(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
		}
		s.cache.set(ctx, key, events)
	}
	s.annotateToday(events)
	return events, nil
}

// ListUpcoming returns events happening today or later, ascending. A limit of
// zero returns all upcoming events.
func (s *EventService) ListUpcoming(ctx context.Context, limit int) ([]models.Event, error) {
	today := s.today()
	key := upcomingCacheKey(today, limit)
	var events []models.Event
	if !s.cache.get(ctx, key, &events) {
		var err error
		events, err = s.repo.ListUpcoming(ctx, today, limit)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming events")
		}
		s.cache.set(ctx, key, events)
	}
	s.annotateToday(events)
	return events, nil
}

// Get returns an event by id with its derived flag.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get event")
	}
	event.IsToday = event.OccursOn(s.now())
	return event, nil
}

// Create registers a new event and invalidates the cached lists.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fieldErrors(err)
	}
	date, err := time.Parse(models.EventDateFormat, req.EventDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "event_date must match format 2006-01-02")
	}
	event := &models.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: optionalText(req.Description),
		EventDate:   date,
		EventTime:   req.EventTime,
		Location:    strings.TrimSpace(req.Location),
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	s.cache.invalidate(ctx, eventCachePattern)
	event.IsToday = event.OccursOn(s.now())
	return event, nil
}

// Update overwrites all editable fields of the event matching id.
func (s *EventService) Update(ctx context.Context, id string, req UpdateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fieldErrors(err)
	}
	date, err := time.Parse(models.EventDateFormat, req.EventDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "event_date must match format 2006-01-02")
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	existing.Title = strings.TrimSpace(req.Title)
	existing.Description = optionalText(req.Description)
	existing.EventDate = date
	existing.EventTime = req.EventTime
	existing.Location = strings.TrimSpace(req.Location)
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	s.cache.invalidate(ctx, eventCachePattern)
	existing.IsToday = existing.OccursOn(s.now())
	return existing, nil
}

// Delete removes an event by id.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	s.cache.invalidate(ctx, eventCachePattern)
	return nil
}

func (s *EventService) annotateToday(events []models.Event) {
	now := s.now()
	for i := range events {
		events[i].IsToday = events[i].OccursOn(now)
	}
}

func (s *EventService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func upcomingCacheKey(today time.Time, limit int) string {
	key := "events:upcoming:" + today.Format(models.EventDateFormat)
	if limit > 0 {
		key += ":" + strconv.Itoa(limit)
	}
	return key
}

func optionalText(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

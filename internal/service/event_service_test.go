package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shininglight/church-api/internal/models"
	appErrors "github.com/shininglight/church-api/pkg/errors"
)

type cacheStub struct {
	data        map[string][]byte
	invalidated []string
	sets        []string
}

func newCacheStub() *cacheStub {
	return &cacheStub{data: map[string][]byte{}}
}

func (c *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.sets = append(c.sets, key)
	return nil
}

func (c *cacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.invalidated = append(c.invalidated, pattern)
	return nil
}

type eventRepoStub struct {
	events        []models.Event
	byID          map[string]*models.Event
	listErr       error
	created       []*models.Event
	upcomingFrom  time.Time
	upcomingLimit int
	deleted       []string
}

func (s *eventRepoStub) List(ctx context.Context) ([]models.Event, error) {
	return s.events, s.listErr
}

func (s *eventRepoStub) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Event, error) {
	s.upcomingFrom = from
	s.upcomingLimit = limit
	return s.events, s.listErr
}

func (s *eventRepoStub) GetByID(ctx context.Context, id string) (*models.Event, error) {
	if event, ok := s.byID[id]; ok {
		return event, nil
	}
	return nil, sql.ErrNoRows
}

func (s *eventRepoStub) Create(ctx context.Context, event *models.Event) error {
	s.created = append(s.created, event)
	return nil
}

func (s *eventRepoStub) Update(ctx context.Context, event *models.Event) error {
	return nil
}

func (s *eventRepoStub) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
}

func TestEventServiceListUpcomingAnnotatesToday(t *testing.T) {
	repo := &eventRepoStub{events: []models.Event{
		{ID: "e1", Title: "Morning Prayer", EventDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{ID: "e2", Title: "Youth Night", EventDate: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewEventService(repo, newCacheStub(), time.Minute, nil, zap.NewNop())
	svc.now = fixedNow

	events, err := svc.ListUpcoming(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].IsToday)
	assert.False(t, events[1].IsToday)
	assert.Equal(t, 3, repo.upcomingLimit)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), repo.upcomingFrom)
}

func TestEventServiceListUpcomingCacheHitStillRecomputesToday(t *testing.T) {
	cache := newCacheStub()
	repo := &eventRepoStub{events: []models.Event{
		{ID: "e1", EventDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewEventService(repo, cache, time.Minute, nil, zap.NewNop())
	svc.now = fixedNow

	_, err := svc.ListUpcoming(context.Background(), 0)
	require.NoError(t, err)
	require.NotEmpty(t, cache.sets)

	// Second call hits the cache; the derived flag must still be fresh.
	repo.listErr = errors.New("db down")
	events, err := svc.ListUpcoming(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].IsToday)
}

func TestEventServiceCreateInvalidDate(t *testing.T) {
	repo := &eventRepoStub{}
	svc := NewEventService(repo, newCacheStub(), time.Minute, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateEventRequest{
		Title:     "Bad Date",
		EventDate: "14-03-2026",
		EventTime: "18:00",
		Location:  "Main Hall",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "event_date")
	assert.Empty(t, repo.created)
}

func TestEventServiceCreateInvalidatesCache(t *testing.T) {
	cache := newCacheStub()
	svc := NewEventService(&eventRepoStub{}, cache, time.Minute, nil, zap.NewNop())
	svc.now = fixedNow

	event, err := svc.Create(context.Background(), CreateEventRequest{
		Title:       "  Easter Service  ",
		Description: "",
		EventDate:   "2026-04-05",
		EventTime:   "09:00",
		Location:    "Main Hall",
	})
	require.NoError(t, err)
	assert.Equal(t, "Easter Service", event.Title)
	assert.Nil(t, event.Description)
	assert.Contains(t, cache.invalidated, "events:*")
}

func TestEventServiceUpdateNotFound(t *testing.T) {
	svc := NewEventService(&eventRepoStub{byID: map[string]*models.Event{}}, newCacheStub(), time.Minute, nil, zap.NewNop())

	_, err := svc.Update(context.Background(), "missing", UpdateEventRequest{
		Title:     "Updated",
		EventDate: "2026-04-05",
		EventTime: "09:00",
		Location:  "Main Hall",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEventServiceDeleteInvalidatesCache(t *testing.T) {
	cache := newCacheStub()
	repo := &eventRepoStub{}
	svc := NewEventService(repo, cache, time.Minute, nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "e1"))
	assert.Equal(t, []string{"e1"}, repo.deleted)
	assert.Contains(t, cache.invalidated, "events:*")
}

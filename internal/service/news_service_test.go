package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shininglight/church-api/internal/models"
	appErrors "github.com/shininglight/church-api/pkg/errors"
)

type newsRepoStub struct {
	posts   []models.NewsPost
	byID    map[string]*models.NewsPost
	created []*models.NewsPost
	updated []*models.NewsPost
	limit   int
}

func (s *newsRepoStub) List(ctx context.Context, limit int) ([]models.NewsPost, error) {
	s.limit = limit
	return s.posts, nil
}

func (s *newsRepoStub) GetByID(ctx context.Context, id string) (*models.NewsPost, error) {
	if post, ok := s.byID[id]; ok {
		return post, nil
	}
	return nil, sql.ErrNoRows
}

func (s *newsRepoStub) Create(ctx context.Context, post *models.NewsPost) error {
	s.created = append(s.created, post)
	return nil
}

func (s *newsRepoStub) Update(ctx context.Context, post *models.NewsPost) error {
	s.updated = append(s.updated, post)
	return nil
}

func (s *newsRepoStub) Delete(ctx context.Context, id string) error {
	return nil
}

func TestNewsServiceListPassesLimit(t *testing.T) {
	repo := &newsRepoStub{posts: []models.NewsPost{{ID: "n1", Title: "Harvest Sunday"}}}
	cache := newCacheStub()
	svc := NewNewsService(repo, cache, time.Minute, nil, zap.NewNop())

	posts, err := svc.List(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 3, repo.limit)
	assert.Contains(t, cache.sets, "news:list:3")
}

func TestNewsServiceCreateTrims(t *testing.T) {
	repo := &newsRepoStub{}
	cache := newCacheStub()
	svc := NewNewsService(repo, cache, time.Minute, nil, zap.NewNop())

	post, err := svc.Create(context.Background(), CreateNewsRequest{Title: "  Harvest Sunday ", Message: " Join us. "})
	require.NoError(t, err)
	assert.Equal(t, "Harvest Sunday", post.Title)
	assert.Equal(t, "Join us.", post.Message)
	assert.Contains(t, cache.invalidated, "news:*")
}

func TestNewsServiceCreateMissingTitle(t *testing.T) {
	repo := &newsRepoStub{}
	svc := NewNewsService(repo, newCacheStub(), time.Minute, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateNewsRequest{Message: "no title"})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "title")
	assert.Empty(t, repo.created)
}

func TestNewsServiceUpdateNotFound(t *testing.T) {
	svc := NewNewsService(&newsRepoStub{byID: map[string]*models.NewsPost{}}, newCacheStub(), time.Minute, nil, zap.NewNop())

	_, err := svc.Update(context.Background(), "missing", UpdateNewsRequest{Title: "x", Message: "y"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestNewsServiceUpdateOverwrites(t *testing.T) {
	repo := &newsRepoStub{byID: map[string]*models.NewsPost{
		"n1": {ID: "n1", Title: "Old", Message: "Old body"},
	}}
	svc := NewNewsService(repo, newCacheStub(), time.Minute, nil, zap.NewNop())

	post, err := svc.Update(context.Background(), "n1", UpdateNewsRequest{Title: "New", Message: "New body"})
	require.NoError(t, err)
	assert.Equal(t, "New", post.Title)
	require.Len(t, repo.updated, 1)
}

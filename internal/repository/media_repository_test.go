package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shininglight/church-api/internal/models"
)

func mediaRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "media_type", "category", "image_url", "video_url", "text_content", "date_uploaded"}).
		AddRow("m1", "Image", "Worship", "http://localhost:8080/media/uploads/1.jpg", nil, nil, time.Now())
}

func TestMediaRepositoryListNewestFirst(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMediaRepository(db)

	mock.ExpectQuery(`(?s)SELECT .+ FROM media ORDER BY date_uploaded DESC`).
		WillReturnRows(mediaRows())

	items, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.MediaTypeImage, items[0].MediaType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepositoryListFiltersByCategory(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMediaRepository(db)

	mock.ExpectQuery(`(?s)SELECT .+ FROM media WHERE category = \$1 ORDER BY date_uploaded DESC`).
		WithArgs("Worship").
		WillReturnRows(mediaRows())

	items, err := repo.List(context.Background(), "Worship")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepositoryCreateSetsUploadTime(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMediaRepository(db)

	mock.ExpectExec("INSERT INTO media").
		WillReturnResult(sqlmock.NewResult(1, 1))

	item, err := models.NewMediaItem(models.MediaTypeText, "Announcements", "Service moved to 10am")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), item))
	assert.NotEmpty(t, item.ID)
	assert.False(t, item.DateUploaded.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMediaRepository(db)

	mock.ExpectExec(`DELETE FROM media WHERE id = \$1`).
		WithArgs("m1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), "m1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

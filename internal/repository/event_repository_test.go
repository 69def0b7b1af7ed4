package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shininglight/church-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func eventRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "event_date", "event_time", "location", "created_at", "updated_at"}).
		AddRow("e1", "Morning Prayer", nil, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), "06:00", "Chapel", time.Now(), time.Now())
}

func TestEventRepositoryListOrdersByDateAscending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery(`(?s)SELECT .+ FROM events\s+ORDER BY event_date ASC, event_time ASC`).
		WillReturnRows(eventRows())

	events, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Morning Prayer", events[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListUpcomingFiltersAndLimits(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery(`(?s)SELECT .+ FROM events\s+WHERE event_date >= \$1\s+ORDER BY event_date ASC, event_time ASC LIMIT 3`).
		WithArgs("2026-03-14").
		WillReturnRows(eventRows())

	events, err := repo.ListUpcoming(context.Background(), time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), 3)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListUpcomingNoLimit(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery(`(?s)SELECT .+ FROM events\s+WHERE event_date >= \$1\s+ORDER BY event_date ASC, event_time ASC$`).
		WithArgs("2026-03-14").
		WillReturnRows(eventRows())

	_, err := repo.ListUpcoming(context.Background(), time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("INSERT INTO events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.Event{Title: "Easter Service", EventDate: time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC), EventTime: "09:00", Location: "Main Hall"}
	require.NoError(t, repo.Create(context.Background(), event))
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), "e1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

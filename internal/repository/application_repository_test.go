package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shininglight/church-api/internal/models"
)

func TestApplicationRepositoryListNewestFirst(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "phone_number", "gender", "age", "departments", "previous_experience", "date_submitted"}).
		AddRow("a1", "Jane Doe", "jane@example.com", "08012345678", "female", 27, pq.StringArray{"choir", "media"}, nil, time.Now())
	mock.ExpectQuery(`(?s)SELECT .+ FROM worker_applications\s+ORDER BY date_submitted DESC`).
		WillReturnRows(rows)

	applications, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, applications, 1)
	assert.Equal(t, pq.StringArray{"choir", "media"}, applications[0].Departments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryCreateDefaultsSubmissionTime(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec("INSERT INTO worker_applications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	application := &models.WorkerApplication{
		FullName:    "Jane Doe",
		Email:       "jane@example.com",
		PhoneNumber: "08012345678",
		Gender:      "female",
		Departments: pq.StringArray{"choir"},
	}
	require.NoError(t, repo.Create(context.Background(), application))
	assert.NotEmpty(t, application.ID)
	assert.False(t, application.DateSubmitted.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec(`DELETE FROM worker_applications WHERE id = \$1`).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), "a1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

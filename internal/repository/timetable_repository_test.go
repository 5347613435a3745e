package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

func TestTimetableRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetables")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	tt := &models.Timetable{
		StartDate: "2025-09-01",
		EndDate:   "2025-09-06",
		Course:    "BTech",
		Semester:  4,
		Data:      types.JSONText(`{"A":{}}`),
	}
	require.NoError(t, repo.Upsert(context.Background(), tt))
	assert.NotEmpty(t, tt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryFindByDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := sqlmock.NewRows([]string{"id", "start_date", "end_date", "course", "semester", "data", "created_at"}).
		AddRow("tt-1", "2025-09-01", "2025-09-06", "BTech", 4, types.JSONText(`{}`), time.Now())
	mock.ExpectQuery("SELECT id, start_date, .* FROM timetables WHERE start_date <= \\$1 AND end_date >= \\$1").
		WithArgs("2025-09-03", "BTech", 4).
		WillReturnRows(rows)

	tt, err := repo.FindByDate(context.Background(), "2025-09-03", "BTech", 4)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-01", tt.StartDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

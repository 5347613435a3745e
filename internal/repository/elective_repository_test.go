package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElectiveRepositoryGroupAggregatesDeduplicatesSubjects(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewElectiveRepository(db)

	rows := sqlmock.NewRows([]string{"elective_group_id", "subject_code", "enrolled_students"}).
		AddRow("G1", "TCS-E1", 30).
		AddRow("G1", "TCS-E1", 10).
		AddRow("G1", "TCS-E2", 20).
		AddRow("G2", "TCS-E3", 15)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT elective_group_id, subject_code, enrolled_students FROM elective_enrollments")).
		WillReturnRows(rows)

	aggregates, err := repo.GroupAggregates(context.Background())
	require.NoError(t, err)
	require.Len(t, aggregates, 2)

	assert.Equal(t, "G1", aggregates[0].GroupID)
	assert.Equal(t, []string{"TCS-E1", "TCS-E2"}, aggregates[0].Subjects)
	assert.Equal(t, 60, aggregates[0].TotalStudents)

	assert.Equal(t, "G2", aggregates[1].GroupID)
	assert.Equal(t, []string{"TCS-E3"}, aggregates[1].Subjects)
	assert.Equal(t, 15, aggregates[1].TotalStudents)

	assert.NoError(t, mock.ExpectationsWereMet())
}

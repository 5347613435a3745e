package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

// ElectiveRepository serves elective enrollment data.
type ElectiveRepository struct {
	db *sqlx.DB
}

// NewElectiveRepository constructs an ElectiveRepository.
func NewElectiveRepository(db *sqlx.DB) *ElectiveRepository {
	return &ElectiveRepository{db: db}
}

// GroupAggregates rolls enrollments up per elective group. Groups and their
// subject lists come back in stable order.
func (r *ElectiveRepository) GroupAggregates(ctx context.Context) ([]models.ElectiveGroupAggregate, error) {
	const query = `SELECT elective_group_id, subject_code, enrolled_students FROM elective_enrollments ORDER BY elective_group_id ASC, subject_code ASC`

	var rows []models.ElectiveEnrollment
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list elective enrollments: %w", err)
	}

	var aggregates []models.ElectiveGroupAggregate
	index := map[string]int{}
	seen := map[string]struct{}{}
	for _, row := range rows {
		i, ok := index[row.ElectiveGroupID]
		if !ok {
			i = len(aggregates)
			index[row.ElectiveGroupID] = i
			aggregates = append(aggregates, models.ElectiveGroupAggregate{GroupID: row.ElectiveGroupID})
		}
		aggregates[i].TotalStudents += row.EnrolledStudents

		// Repeated enrollment rows for the same subject still add students
		// but must not list the subject twice.
		key := row.ElectiveGroupID + "\x00" + row.SubjectCode
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		aggregates[i].Subjects = append(aggregates[i].Subjects, row.SubjectCode)
	}

	return aggregates, nil
}

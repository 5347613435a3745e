package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

const timetableColumns = "id, start_date, end_date, course, semester, data, created_at"

// TimetableRepository manages stored generation runs.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// Upsert stores a run, replacing any existing one with the same start date,
// course and semester.
func (r *TimetableRepository) Upsert(ctx context.Context, tt *models.Timetable) error {
	if tt.ID == "" {
		tt.ID = uuid.NewString()
	}
	if tt.CreatedAt.IsZero() {
		tt.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO timetables (id, start_date, end_date, course, semester, data, created_at)
		VALUES (:id, :start_date, :end_date, :course, :semester, :data, :created_at)
		ON CONFLICT (start_date, course, semester) DO UPDATE SET end_date = EXCLUDED.end_date, data = EXCLUDED.data, created_at = EXCLUDED.created_at`
	if _, err := r.db.NamedExecContext(ctx, query, tt); err != nil {
		return fmt.Errorf("upsert timetable: %w", err)
	}
	return nil
}

// FindByDate returns the run whose validity window covers the given date.
func (r *TimetableRepository) FindByDate(ctx context.Context, date, course string, semester int) (*models.Timetable, error) {
	query := fmt.Sprintf("SELECT %s FROM timetables WHERE start_date <= $1 AND end_date >= $1 AND course = $2 AND semester = $3 ORDER BY start_date DESC LIMIT 1", timetableColumns)
	var tt models.Timetable
	if err := r.db.GetContext(ctx, &tt, query, date, course, semester); err != nil {
		return nil, err
	}
	return &tt, nil
}

// Latest returns the most recent run for a course semester.
func (r *TimetableRepository) Latest(ctx context.Context, course string, semester int) (*models.Timetable, error) {
	query := fmt.Sprintf("SELECT %s FROM timetables WHERE course = $1 AND semester = $2 ORDER BY start_date DESC LIMIT 1", timetableColumns)
	var tt models.Timetable
	if err := r.db.GetContext(ctx, &tt, query, course, semester); err != nil {
		return nil, err
	}
	return &tt, nil
}

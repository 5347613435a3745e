package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

// DependencyRepository serves subject ordering hints.
type DependencyRepository struct {
	db *sqlx.DB
}

// NewDependencyRepository constructs a DependencyRepository.
func NewDependencyRepository(db *sqlx.DB) *DependencyRepository {
	return &DependencyRepository{db: db}
}

// ListActive returns the enabled dependency edges ordered by priority.
func (r *DependencyRepository) ListActive(ctx context.Context) ([]models.SubjectDependency, error) {
	const query = `SELECT id, subject_code, dependent_subject_code, dependency_type, priority, gap_days, same_day, active FROM subject_dependencies WHERE active = TRUE ORDER BY priority DESC, subject_code ASC`
	var deps []models.SubjectDependency
	if err := r.db.SelectContext(ctx, &deps, query); err != nil {
		return nil, fmt.Errorf("list dependencies: %w", err)
	}
	return deps, nil
}

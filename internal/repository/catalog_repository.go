package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

// CatalogRepository serves the course, section and subject catalog.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCourses returns every degree programme.
func (r *CatalogRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, code, name, semesters FROM courses ORDER BY code ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListSections returns sections for a course, ordered by name so the engine
// walks cohorts deterministically.
func (r *CatalogRepository) ListSections(ctx context.Context, courseCode string) ([]models.Section, error) {
	const query = `SELECT id, course_code, name, size FROM sections WHERE course_code = $1 ORDER BY name ASC`
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, courseCode); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// ListSubjects returns catalog subjects for a course semester.
func (r *CatalogRepository) ListSubjects(ctx context.Context, courseCode string, semester int) ([]models.Subject, error) {
	const query = `SELECT id, code, name, course_code, semester, lab, no_double_block, exclusive_section FROM subjects WHERE course_code = $1 AND semester = $2 ORDER BY code ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, courseCode, semester); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

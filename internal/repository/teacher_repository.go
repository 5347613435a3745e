package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

const teacherColumns = "id, name, email, available, lecture_limit, subject_sections, sections_taught, earliest_time, latest_time, unavailable_days, preferred_days, preferred_slots, created_at, updated_at"

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns teachers matching filters along with total count.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	base := "FROM teachers WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Available != nil {
		conditions = append(conditions, fmt.Sprintf("available = $%d", len(args)+1))
		args = append(args, *filter.Available)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(COALESCE(email, '')) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC LIMIT %d OFFSET %d", teacherColumns, base, size, offset)
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}

	return teachers, total, nil
}

// ListAll returns the full roster ordered by name. Generation snapshots are
// built from this list so the order must be stable.
func (r *TeacherRepository) ListAll(ctx context.Context) ([]models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers ORDER BY name ASC", teacherColumns)
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list all teachers: %w", err)
	}
	return teachers, nil
}

// FindByID fetches a teacher by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE id = $1", teacherColumns)
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// Create inserts a new teacher record.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	teacher.UpdatedAt = now

	if teacher.SubjectSections == nil {
		teacher.SubjectSections = types.JSONText(`{}`)
	}
	if teacher.SectionsTaught == nil {
		teacher.SectionsTaught = types.JSONText(`[]`)
	}
	if teacher.UnavailableDays == nil {
		teacher.UnavailableDays = types.JSONText(`[]`)
	}
	if teacher.PreferredDays == nil {
		teacher.PreferredDays = types.JSONText(`[]`)
	}
	if teacher.PreferredSlots == nil {
		teacher.PreferredSlots = types.JSONText(`[]`)
	}

	const query = `INSERT INTO teachers (id, name, email, available, lecture_limit, subject_sections, sections_taught, earliest_time, latest_time, unavailable_days, preferred_days, preferred_slots, created_at, updated_at)
		VALUES (:id, :name, :email, :available, :lecture_limit, :subject_sections, :sections_taught, :earliest_time, :latest_time, :unavailable_days, :preferred_days, :preferred_slots, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// UpdateAvailability toggles whether a teacher is schedulable.
func (r *TeacherRepository) UpdateAvailability(ctx context.Context, id string, available bool) error {
	const query = `UPDATE teachers SET available = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, available, time.Now().UTC()); err != nil {
		return fmt.Errorf("update teacher availability: %w", err)
	}
	return nil
}

// UpdateLectureLimit sets or clears the weekly lecture target.
func (r *TeacherRepository) UpdateLectureLimit(ctx context.Context, id string, limit *int) error {
	const query = `UPDATE teachers SET lecture_limit = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, limit, time.Now().UTC()); err != nil {
		return fmt.Errorf("update teacher lecture limit: %w", err)
	}
	return nil
}

// UpdateSubjectSections replaces the subject authorization document.
func (r *TeacherRepository) UpdateSubjectSections(ctx context.Context, id string, sections types.JSONText) error {
	const query = `UPDATE teachers SET subject_sections = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, sections, time.Now().UTC()); err != nil {
		return fmt.Errorf("update teacher subject sections: %w", err)
	}
	return nil
}

// UpdatePreferences replaces the soft scheduling window.
func (r *TeacherRepository) UpdatePreferences(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teachers SET earliest_time = :earliest_time, latest_time = :latest_time, unavailable_days = :unavailable_days, preferred_days = :preferred_days, preferred_slots = :preferred_slots, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("update teacher preferences: %w", err)
	}
	return nil
}

// ReplaceSectionsTaught overwrites the reconciled section list by teacher
// name. Generation output is keyed by name rather than ID.
func (r *TeacherRepository) ReplaceSectionsTaught(ctx context.Context, name string, sections types.JSONText) error {
	const query = `UPDATE teachers SET sections_taught = $2, updated_at = $3 WHERE name = $1`
	if _, err := r.db.ExecContext(ctx, query, name, sections, time.Now().UTC()); err != nil {
		return fmt.Errorf("replace sections taught: %w", err)
	}
	return nil
}

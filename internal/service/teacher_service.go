package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/dto"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	UpdateAvailability(ctx context.Context, id string, available bool) error
	UpdateLectureLimit(ctx context.Context, id string, limit *int) error
	UpdateSubjectSections(ctx context.Context, id string, sections types.JSONText) error
	UpdatePreferences(ctx context.Context, teacher *models.Teacher) error
}

// TeacherService manages the roster used to build generation snapshots.
type TeacherService struct {
	repo   teacherRepository
	logger *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, logger: logger}
}

// List returns teachers and pagination metadata.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	return teachers, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one teacher.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// Create registers a roster entry.
func (s *TeacherService) Create(ctx context.Context, req dto.CreateTeacherRequest) (*models.Teacher, error) {
	teacher := &models.Teacher{
		Name:         req.Name,
		Email:        req.Email,
		Available:    true,
		LectureLimit: req.LectureLimit,
	}
	if req.Available != nil {
		teacher.Available = *req.Available
	}
	if req.SubjectSections != nil {
		doc, err := json.Marshal(req.SubjectSections)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "bad subject sections")
		}
		teacher.SubjectSections = types.JSONText(doc)
	}

	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}

	s.logger.Info("teacher created", zap.String("id", teacher.ID), zap.String("name", teacher.Name))
	return teacher, nil
}

// SetAvailability toggles whether a teacher is schedulable.
func (s *TeacherService) SetAvailability(ctx context.Context, id string, req dto.UpdateAvailabilityRequest) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateAvailability(ctx, id, req.Available); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update availability")
	}
	return nil
}

// SetLectureLimit sets or clears the weekly lecture target.
func (s *TeacherService) SetLectureLimit(ctx context.Context, id string, req dto.UpdateLectureLimitRequest) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateLectureLimit(ctx, id, req.LectureLimit); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lecture limit")
	}
	return nil
}

// SetSubjectSections replaces a teacher's subject authorizations.
func (s *TeacherService) SetSubjectSections(ctx context.Context, id string, req dto.UpdateSubjectSectionsRequest) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	doc, err := json.Marshal(req.SubjectSections)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "bad subject sections")
	}
	if err := s.repo.UpdateSubjectSections(ctx, id, types.JSONText(doc)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject sections")
	}
	return nil
}

// SetPreferences replaces a teacher's soft scheduling window.
func (s *TeacherService) SetPreferences(ctx context.Context, id string, req dto.UpdatePreferencesRequest) error {
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	teacher.EarliestTime = req.EarliestTime
	teacher.LatestTime = req.LatestTime

	for _, pair := range []struct {
		values []string
		dest   *types.JSONText
	}{
		{req.UnavailableDays, &teacher.UnavailableDays},
		{req.PreferredDays, &teacher.PreferredDays},
		{req.PreferredSlots, &teacher.PreferredSlots},
	} {
		values := pair.values
		if values == nil {
			values = []string{}
		}
		doc, err := json.Marshal(values)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "bad preference list")
		}
		*pair.dest = types.JSONText(doc)
	}

	if err := s.repo.UpdatePreferences(ctx, teacher); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update preferences")
	}
	return nil
}

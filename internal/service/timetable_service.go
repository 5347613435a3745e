package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/dto"
	"github.com/noah-isme/campus-timetable-api/internal/engine"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

// generateValidator checks generation requests that arrive outside gin's
// binding path, such as scheduled regeneration. It reads the same tags.
var generateValidator = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

type timetableTeacherRepository interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
	ReplaceSectionsTaught(ctx context.Context, name string, sections types.JSONText) error
}

type timetableClassroomRepository interface {
	ListActive(ctx context.Context) ([]models.Classroom, error)
}

type timetableCatalogRepository interface {
	ListSections(ctx context.Context, courseCode string) ([]models.Section, error)
	ListSubjects(ctx context.Context, courseCode string, semester int) ([]models.Subject, error)
}

type timetableElectiveRepository interface {
	GroupAggregates(ctx context.Context) ([]models.ElectiveGroupAggregate, error)
}

type timetableDependencyRepository interface {
	ListActive(ctx context.Context) ([]models.SubjectDependency, error)
}

type timetableStore interface {
	Upsert(ctx context.Context, tt *models.Timetable) error
	FindByDate(ctx context.Context, date, course string, semester int) (*models.Timetable, error)
	Latest(ctx context.Context, course string, semester int) (*models.Timetable, error)
}

// TimetableConfig tunes the generation service.
type TimetableConfig struct {
	DefaultCourse   string
	DefaultSemester int
	CacheTTL        time.Duration
	Engine          engine.Config
}

// TimetableService assembles generation snapshots from persistence, runs
// the engine and stores the resulting grids.
type TimetableService struct {
	teachers     timetableTeacherRepository
	classrooms   timetableClassroomRepository
	catalog      timetableCatalogRepository
	electives    timetableElectiveRepository
	dependencies timetableDependencyRepository
	store        timetableStore
	cache        *redis.Client
	metrics      *MetricsService
	logger       *zap.Logger
	config       TimetableConfig
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(
	teachers timetableTeacherRepository,
	classrooms timetableClassroomRepository,
	catalog timetableCatalogRepository,
	electives timetableElectiveRepository,
	dependencies timetableDependencyRepository,
	store timetableStore,
	cache *redis.Client,
	metrics *MetricsService,
	logger *zap.Logger,
	config TimetableConfig,
) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		teachers:     teachers,
		classrooms:   classrooms,
		catalog:      catalog,
		electives:    electives,
		dependencies: dependencies,
		store:        store,
		cache:        cache,
		metrics:      metrics,
		logger:       logger,
		config:       config,
	}
}

// Generate runs a full generation for the requested week and persists the
// result. The optional seed makes the run reproducible.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*models.Timetable, error) {
	if err := generateValidator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}

	course := req.Course
	if course == "" {
		course = s.config.DefaultCourse
	}
	semester := req.Semester
	if semester <= 0 {
		semester = s.config.DefaultSemester
	}

	start, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		// A missing or malformed date means "this week", not a failed run.
		start = time.Now()
		s.logger.Warn("unparseable generation date, using today", zap.String("date", req.Date))
	}

	snap, err := s.buildSnapshot(ctx, start, course, semester)
	if err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	eng := engine.New(s.config.Engine, rng, s.logger.Named("engine"))

	began := time.Now()
	result, err := eng.Generate(*snap)
	if err != nil {
		s.metrics.ObserveGeneration(time.Since(began), err, 0, 0, 0)
		return nil, appErrors.Wrap(err, appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, "timetable generation failed")
	}
	s.metrics.ObserveGeneration(time.Since(began), nil, result.Stats.PlacedSessions, result.Stats.UnfilledCells, result.Stats.LabRetryExhaustions)

	s.logger.Info("timetable generated",
		zap.String("start_date", start.Format("2006-01-02")),
		zap.String("course", course),
		zap.Int("semester", semester),
		zap.Int64("seed", seed),
		zap.Int("placed_sessions", result.Stats.PlacedSessions),
		zap.Int("unfilled_cells", result.Stats.UnfilledCells),
		zap.Int("lab_retry_exhaustions", result.Stats.LabRetryExhaustions),
	)

	data, err := json.Marshal(result)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to serialize timetable")
	}

	tt := &models.Timetable{
		StartDate: start.Format("2006-01-02"),
		EndDate:   start.AddDate(0, 0, 5).Format("2006-01-02"),
		Course:    course,
		Semester:  semester,
		Data:      types.JSONText(data),
	}
	if err := s.store.Upsert(ctx, tt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store timetable")
	}

	s.writeBackSectionsTaught(ctx, result.SectionsTaught)
	s.cacheSet(ctx, s.cacheKey(tt.StartDate, course, semester), tt)

	return tt, nil
}

// GetByDate returns the stored run covering the given date, consulting the
// cache first.
func (s *TimetableService) GetByDate(ctx context.Context, date, course string, semester int) (*models.Timetable, error) {
	if course == "" {
		course = s.config.DefaultCourse
	}
	if semester <= 0 {
		semester = s.config.DefaultSemester
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	key := s.cacheKey(date, course, semester)
	if cached := s.cacheGet(ctx, key); cached != nil {
		return cached, nil
	}

	tt, err := s.store.FindByDate(ctx, date, course, semester)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoTimetable, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	s.cacheSet(ctx, key, tt)
	return tt, nil
}

// Latest returns the most recent stored run.
func (s *TimetableService) Latest(ctx context.Context, course string, semester int) (*models.Timetable, error) {
	if course == "" {
		course = s.config.DefaultCourse
	}
	if semester <= 0 {
		semester = s.config.DefaultSemester
	}

	tt, err := s.store.Latest(ctx, course, semester)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoTimetable, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return tt, nil
}

// buildSnapshot loads every input the engine needs for one run.
func (s *TimetableService) buildSnapshot(ctx context.Context, start time.Time, course string, semester int) (*engine.Snapshot, error) {
	sections, err := s.catalog.ListSections(ctx, course)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}
	subjects, err := s.catalog.ListSubjects(ctx, course, semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	rooms, err := s.classrooms.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	groups, err := s.electives.GroupAggregates(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load elective groups")
	}
	deps, err := s.dependencies.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dependencies")
	}

	snap := &engine.Snapshot{
		StartDate:         start,
		Course:            course,
		Semester:          semester,
		ExclusiveSubjects: map[string][]string{},
		Teachers:          map[string]engine.Teacher{},
		SubjectTeachers:   map[string][]string{},
		Authorizations:    map[string]map[string][]string{},
		SectionsTaught:    map[string][]string{},
		SectionSizes:      map[string]int{},
		Dependencies:      map[string][]engine.Dependency{},
	}

	for _, sec := range sections {
		snap.Sections = append(snap.Sections, sec.Name)
		if sec.Size != nil {
			snap.SectionSizes[sec.Name] = *sec.Size
		}
	}

	for _, sub := range subjects {
		snap.Subjects = append(snap.Subjects, engine.Subject{
			Code:          sub.Code,
			Name:          sub.Name,
			Lab:           sub.Lab,
			NoDoubleBlock: sub.NoDoubleBlock,
		})
		if sub.ExclusiveSection != nil {
			snap.ExclusiveSubjects[*sub.ExclusiveSection] = append(snap.ExclusiveSubjects[*sub.ExclusiveSection], sub.Code)
		}
	}

	for _, t := range teachers {
		entry := engine.Teacher{Name: t.Name, Available: t.Available}
		if t.LectureLimit != nil {
			entry.WeeklyLimit = *t.LectureLimit
		}

		prefs, err := teacherPreferences(t)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("bad preference document for teacher %s", t.Name))
		}
		entry.Preferences = prefs
		snap.Teachers[t.Name] = entry

		var subjectSections map[string][]string
		if len(t.SubjectSections) > 0 {
			if err := json.Unmarshal(t.SubjectSections, &subjectSections); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("bad authorization document for teacher %s", t.Name))
			}
		}
		for subject, secs := range subjectSections {
			snap.SubjectTeachers[subject] = append(snap.SubjectTeachers[subject], t.Name)
			if snap.Authorizations[t.Name] == nil {
				snap.Authorizations[t.Name] = map[string][]string{}
			}
			snap.Authorizations[t.Name][subject] = secs
		}

		var taught []string
		if len(t.SectionsTaught) > 0 {
			if err := json.Unmarshal(t.SectionsTaught, &taught); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("bad sections document for teacher %s", t.Name))
			}
		}
		snap.SectionsTaught[t.Name] = taught
	}

	for _, room := range rooms {
		var roomSubjects []string
		if len(room.Subjects) > 0 {
			if err := json.Unmarshal(room.Subjects, &roomSubjects); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("bad subject list for room %s", room.RoomNumber))
			}
		}
		snap.Classrooms = append(snap.Classrooms, engine.Classroom{
			RoomNumber: room.RoomNumber,
			Capacity:   room.Capacity,
			RoomType:   normalizeRoomType(room.RoomType),
			Subjects:   roomSubjects,
		})
	}

	for _, g := range groups {
		snap.ElectiveGroups = append(snap.ElectiveGroups, engine.ElectiveGroup{
			ID:            g.GroupID,
			TotalStudents: g.TotalStudents,
			Subjects:      g.Subjects,
		})
	}

	for _, d := range deps {
		snap.Dependencies[d.SubjectCode] = append(snap.Dependencies[d.SubjectCode], engine.Dependency{
			Code:     d.DependentSubjectCode,
			Type:     d.DependencyType,
			Priority: d.Priority,
			GapDays:  d.GapDays,
			SameDay:  d.SameDay,
		})
	}

	return snap, nil
}

// writeBackSectionsTaught persists the reconciled teacher workload map.
// Failures are logged and do not fail the run.
func (s *TimetableService) writeBackSectionsTaught(ctx context.Context, taught map[string][]string) {
	for name, sections := range taught {
		if name == engine.TeacherElectiveFaculty || name == engine.TeacherRespective {
			continue
		}
		doc, err := json.Marshal(sections)
		if err != nil {
			s.logger.Warn("failed to serialize sections taught", zap.String("teacher", name), zap.Error(err))
			continue
		}
		if err := s.teachers.ReplaceSectionsTaught(ctx, name, types.JSONText(doc)); err != nil {
			s.logger.Warn("failed to write back sections taught", zap.String("teacher", name), zap.Error(err))
		}
	}
}

func (s *TimetableService) cacheKey(date, course string, semester int) string {
	return fmt.Sprintf("timetable:%s:%s:%d", course, date, semester)
}

func (s *TimetableService) cacheGet(ctx context.Context, key string) *models.Timetable {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		s.metrics.RecordCacheOperation(false)
		return nil
	}
	var tt models.Timetable
	if err := json.Unmarshal(raw, &tt); err != nil {
		s.metrics.RecordCacheOperation(false)
		return nil
	}
	s.metrics.RecordCacheOperation(true)
	return &tt
}

func (s *TimetableService) cacheSet(ctx context.Context, key string, tt *models.Timetable) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(tt)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.config.CacheTTL).Err(); err != nil {
		s.logger.Warn("failed to cache timetable", zap.String("key", key), zap.Error(err))
	}
}

func teacherPreferences(t models.Teacher) (*engine.PreferenceWindow, error) {
	prefs := &engine.PreferenceWindow{}
	empty := true

	if t.EarliestTime != nil && *t.EarliestTime != "" {
		prefs.EarliestStart = *t.EarliestTime
		empty = false
	}
	if t.LatestTime != nil && *t.LatestTime != "" {
		prefs.LatestStart = *t.LatestTime
		empty = false
	}

	for _, pair := range []struct {
		raw  types.JSONText
		dest *[]string
	}{
		{t.UnavailableDays, &prefs.UnavailableDays},
		{t.PreferredDays, &prefs.PreferredDays},
		{t.PreferredSlots, &prefs.PreferredSlots},
	} {
		if len(pair.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.raw, pair.dest); err != nil {
			return nil, err
		}
		if len(*pair.dest) > 0 {
			empty = false
		}
	}

	if empty {
		return nil, nil
	}
	return prefs, nil
}

func normalizeRoomType(raw string) string {
	switch raw {
	case "LAB", engine.RoomTypeLab:
		return engine.RoomTypeLab
	default:
		return engine.RoomTypeLecture
	}
}

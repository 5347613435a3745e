package engine

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"
)

// The slot grammar is fixed: eight one-hour slots per working day, lunch at
// 13:00, mornings through 13:00 and two afternoon slots.
var (
	timeSlots = []string{
		"8:00-9:00", "9:00-10:00", "10:00-11:00", "11:00-12:00",
		"12:00-13:00", "13:00-14:00", "14:00-15:00", "15:00-16:00",
	}
	morningSlots   = []string{"8:00-9:00", "9:00-10:00", "10:00-11:00", "11:00-12:00", "12:00-13:00"}
	afternoonSlots = []string{"14:00-15:00", "15:00-16:00"}

	// The two canonical windows an elective block may occupy.
	electiveSlotPairs = [2][2]string{
		{"11:00-12:00", "12:00-13:00"},
		{"14:00-15:00", "15:00-16:00"},
	}
)

const lunchSlot = "13:00-14:00"

// TimeSlots returns the canonical ordered slot labels.
func TimeSlots() []string {
	out := make([]string, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// Fatal preconditions: the engine refuses to run on an empty catalog rather
// than produce a degenerate schedule.
var (
	ErrNoTeachers = errors.New("engine: no teachers configured")
	ErrNoSubjects = errors.New("engine: no subjects configured")
	ErrNoSections = errors.New("engine: no sections configured")
)

// Config carries the engine tunables. Zero values select the defaults the
// institution has always run with.
type Config struct {
	// RestDay is skipped when building the working week.
	RestDay time.Weekday
	// LabRetryBudget bounds the random search per lab subject and section.
	LabRetryBudget int
	// WeeklyCap is the hard weekly session ceiling per teacher.
	WeeklyCap int
	// MorningDensityTarget is the filled-morning-cell count below which a
	// section spills into the afternoon.
	MorningDensityTarget int
	// WeeklyFillCeiling stops afternoon overflow once a section's non-lunch
	// total reaches it.
	WeeklyFillCeiling int
	// RegularSections are sized at RegularSectionSize when no explicit size
	// is known; everything else falls back to SmallSectionSize.
	RegularSections    []string
	RegularSectionSize int
	SmallSectionSize   int
}

// withDefaults fills zero values. RestDay needs no default: time.Sunday is
// the zero Weekday.
func (c Config) withDefaults() Config {
	if c.LabRetryBudget <= 0 {
		c.LabRetryBudget = 50
	}
	if c.WeeklyCap <= 0 {
		c.WeeklyCap = 15
	}
	if c.MorningDensityTarget <= 0 {
		c.MorningDensityTarget = 20
	}
	if c.WeeklyFillCeiling <= 0 {
		c.WeeklyFillCeiling = 25
	}
	if len(c.RegularSections) == 0 {
		c.RegularSections = []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	}
	if c.RegularSectionSize <= 0 {
		c.RegularSectionSize = 60
	}
	if c.SmallSectionSize <= 0 {
		c.SmallSectionSize = 30
	}
	return c
}

// Engine runs best-effort greedy timetable generation. It is synchronous,
// performs no I/O and draws all randomness from the injected source, so one
// snapshot and one seed reproduce one grid exactly.
type Engine struct {
	cfg    Config
	rng    *rand.Rand
	logger *zap.Logger
}

// New builds an engine. A nil rng gets a time-seeded source; a nil logger is
// replaced with a no-op.
func New(cfg Config, rng *rand.Rand, logger *zap.Logger) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cfg: cfg.withDefaults(), rng: rng, logger: logger}
}

// Generate runs the full pipeline: electives, then per section labs, theory
// and afternoon overflow, then lecture-limit repair and sections-taught
// reconciliation. Cells with no valid candidate are left unfilled.
func (e *Engine) Generate(snap Snapshot) (*Result, error) {
	if len(snap.Teachers) == 0 {
		return nil, ErrNoTeachers
	}
	if len(snap.Subjects) == 0 {
		return nil, ErrNoSubjects
	}
	if len(snap.Sections) == 0 {
		return nil, ErrNoSections
	}

	r := newRun(e, snap)

	r.placeElectives()
	for _, section := range snap.Sections {
		r.placeLabs(section)
		r.placeTheory(section)
		r.placeOverflow(section)
	}
	r.repairLectureLimits()
	taught := r.reconcile()

	r.stats.UnfilledCells = r.countUnfilled()

	e.logger.Debug("generation finished",
		zap.String("course", snap.Course),
		zap.Int("semester", snap.Semester),
		zap.Int("placed", r.stats.PlacedSessions),
		zap.Int("unfilled", r.stats.UnfilledCells),
		zap.Int("lab_exhaustions", r.stats.LabRetryExhaustions),
	)

	return &Result{
		Days:           r.days,
		Grid:           r.grid,
		Rooms:          r.rooms,
		SectionsTaught: taught,
		Stats:          r.stats,
	}, nil
}

// run holds the mutable state of one generation pass.
type run struct {
	cfg  Config
	rng  *rand.Rand
	snap Snapshot

	days  []string
	grid  Grid
	rooms RoomOccupancy

	electiveDays  []string
	electiveSlots []string

	subjects map[string]Subject
	// taught accumulates teacher -> sections observed during placement; the
	// final reconciliation recomputes it from the grid.
	taught map[string][]string

	stats Stats
}

func newRun(e *Engine, snap Snapshot) *run {
	days := BuildWeek(snap.StartDate, e.cfg.RestDay)

	grid := make(Grid, len(snap.Sections))
	for _, section := range snap.Sections {
		grid[section] = make(map[string]map[string]Assignment, len(days))
		for _, day := range days {
			grid[section][day] = make(map[string]Assignment)
		}
	}

	subjects := make(map[string]Subject, len(snap.Subjects))
	for _, s := range snap.Subjects {
		subjects[s.Code] = s
	}

	taught := make(map[string][]string, len(snap.SectionsTaught))
	for teacher, sections := range snap.SectionsTaught {
		taught[teacher] = append([]string(nil), sections...)
	}

	return &run{
		cfg:      e.cfg,
		rng:      e.rng,
		snap:     snap,
		days:     days,
		grid:     grid,
		rooms:    make(RoomOccupancy),
		subjects: subjects,
		taught:   taught,
	}
}

func slotIndex(slot string) int {
	for i, s := range timeSlots {
		if s == slot {
			return i
		}
	}
	return -1
}

func nextSlot(slot string) string {
	idx := slotIndex(slot)
	if idx < 0 || idx+1 >= len(timeSlots) {
		return ""
	}
	return timeSlots[idx+1]
}

func prevSlot(slot string) string {
	idx := slotIndex(slot)
	if idx <= 0 {
		return ""
	}
	return timeSlots[idx-1]
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func (r *run) inElectiveWindow(day, slot string) bool {
	return contains(r.electiveDays, day) && contains(r.electiveSlots, slot)
}

// labSubjects returns lab-marked subjects in catalog order.
func (r *run) labSubjects() []Subject {
	var labs []Subject
	for _, s := range r.snap.Subjects {
		if s.Lab {
			labs = append(labs, s)
		}
	}
	return labs
}

// corePool is the section's full candidate pool: shared theory subjects plus
// the section's exclusive subjects, excluding catalog placeholders.
func (r *run) corePool(section string) []string {
	exclusive := make(map[string]bool)
	for _, codes := range r.snap.ExclusiveSubjects {
		for _, code := range codes {
			exclusive[code] = true
		}
	}

	var pool []string
	for _, s := range r.snap.Subjects {
		if s.Lab || s.Code == "Elective" || s.Code == "Project" {
			continue
		}
		if exclusive[s.Code] {
			continue
		}
		pool = append(pool, s.Code)
	}
	pool = append(pool, r.snap.ExclusiveSubjects[section]...)
	return pool
}

// fullPool adds lab subjects back; used by the repair pass.
func (r *run) fullPool(section string) []string {
	pool := r.corePool(section)
	for _, s := range r.snap.Subjects {
		if s.Lab {
			pool = append(pool, s.Code)
		}
	}
	return pool
}

// validTeachers filters the subject's candidate pool down to available
// teachers authorized for this subject and section, preserving pool order.
func (r *run) validTeachers(subject, section string) []string {
	var out []string
	for _, name := range r.snap.SubjectTeachers[subject] {
		if t, ok := r.snap.Teachers[name]; ok && !t.Available {
			continue
		}
		if !r.authorized(name, subject, section) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// authorized reports whether the teacher may take this subject in this
// section. Candidate pools require an explicit authorization entry.
func (r *run) authorized(teacher, subject, section string) bool {
	bySubject, ok := r.snap.Authorizations[teacher]
	if !ok {
		return false
	}
	sections, ok := bySubject[subject]
	if !ok {
		return false
	}
	return contains(sections, section)
}

func (r *run) recordTaught(teacher, section string) {
	if !contains(r.taught[teacher], section) {
		r.taught[teacher] = append(r.taught[teacher], section)
	}
}

func (r *run) assign(section, day, slot string, a Assignment) {
	r.grid[section][day][slot] = a
	if a.Subject != SubjectLunch {
		r.stats.PlacedSessions++
	}
}

func (r *run) countUnfilled() int {
	unfilled := 0
	for _, section := range r.snap.Sections {
		for _, day := range r.days {
			for _, slot := range timeSlots {
				if _, ok := r.grid[section][day][slot]; !ok {
					unfilled++
				}
			}
		}
	}
	return unfilled
}

// sortedTeacherNames keeps map-driven passes deterministic.
func sortedTeacherNames(m map[string]Teacher) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

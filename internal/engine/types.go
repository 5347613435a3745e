package engine

import "time"

// SessionLength is the number of consecutive slots a session occupies.
type SessionLength int

const (
	// SingleHour is a regular one-slot session.
	SingleHour SessionLength = 1
	// DoubleHour is a contiguous two-slot block, used by lab sessions.
	DoubleHour SessionLength = 2
)

// Sentinel values used inside the grid. Group-taught sessions carry a
// sentinel teacher and are never attributed to an individual for conflict
// or workload purposes.
const (
	TeacherElectiveFaculty = "Elective Faculty"
	TeacherRespective      = "respective teacher"
	SubjectLunch           = "Lunch"
)

// Room types recognised by the allocator.
const (
	RoomTypeLecture = "lecture"
	RoomTypeLab     = "lab"
)

// Assignment is the content of one grid cell.
type Assignment struct {
	Subject          string   `json:"subject"`
	Teacher          string   `json:"teacher,omitempty"`
	Room             string   `json:"room,omitempty"`
	ElectiveSubjects []string `json:"elective_subjects,omitempty"`
	TotalStudents    int      `json:"total_students,omitempty"`
}

// Grid maps section -> day -> time slot -> assignment. A missing slot key
// means the cell is unfilled. At most one assignment exists per cell.
type Grid map[string]map[string]map[string]Assignment

// RoomOccupancy maps room -> day -> time slot -> section, recorded as rooms
// are handed out during a run.
type RoomOccupancy map[string]map[string]map[string]string

// Subject describes one catalog subject as the engine sees it.
type Subject struct {
	Code string
	Name string
	// Lab subjects are scheduled as contiguous double-hour blocks in lab rooms.
	Lab bool
	// NoDoubleBlock subjects may never be scheduled as a two-hour block and
	// may not be abutted by one.
	NoDoubleBlock bool
}

// PreferenceWindow restricts when a teacher accepts sessions. Times are
// "HH:MM" strings compared lexically against slot start times.
type PreferenceWindow struct {
	EarliestStart   string
	LatestStart     string
	UnavailableDays []string
	PreferredDays   []string
	PreferredSlots  []string
}

// Teacher is the per-run snapshot of one teacher.
type Teacher struct {
	Name      string
	Available bool
	// WeeklyLimit is an explicit weekly session target; zero means no
	// explicit limit. Treated as a soft target by the repair pass.
	WeeklyLimit int
	Preferences *PreferenceWindow
}

// Classroom is a schedulable room.
type Classroom struct {
	RoomNumber string
	Capacity   int
	RoomType   string
	// Subjects, when non-empty, reserves the room for those subject codes.
	Subjects []string
}

// ElectiveGroup is a cross-section cohort attending one of several parallel
// elective subjects in a shared window.
type ElectiveGroup struct {
	ID            string
	TotalStudents int
	Subjects      []string
}

// Dependency is a soft ordering hint between two subject codes.
type Dependency struct {
	// Code is the related subject: for a prerequisite edge it is the subject
	// that should appear earlier in the week.
	Code     string
	Type     string
	Priority int
	GapDays  int
	SameDay  bool
}

// DependencyTypePrerequisite gates theory placement until the prerequisite
// has been scheduled, waived in the late half of the week.
const DependencyTypePrerequisite = "prerequisite"

// Snapshot is the immutable input of one generation run. The engine never
// mutates it; the run's output is a fresh Grid and RoomOccupancy.
type Snapshot struct {
	// StartDate anchors the six-day week; the zero value means "now".
	StartDate time.Time
	Course    string
	Semester  int

	Sections []string
	Subjects []Subject
	// ExclusiveSubjects lists subject codes only offered to a given section.
	ExclusiveSubjects map[string][]string

	Teachers map[string]Teacher
	// SubjectTeachers is the candidate teacher pool per subject code.
	SubjectTeachers map[string][]string
	// Authorizations maps teacher -> subject -> sections the teacher may be
	// assigned to. A present entry restricts the teacher to those sections.
	Authorizations map[string]map[string][]string
	// SectionsTaught is the caller's current teacher -> sections record; the
	// run returns a reconciled replacement.
	SectionsTaught map[string][]string

	SectionSizes map[string]int
	Classrooms   []Classroom

	ElectiveGroups []ElectiveGroup
	// Dependencies maps a subject code to its outgoing dependency edges.
	Dependencies map[string][]Dependency
}

// Stats summarises one generation run.
type Stats struct {
	PlacedSessions      int `json:"placed_sessions"`
	UnfilledCells       int `json:"unfilled_cells"`
	LabRetryExhaustions int `json:"lab_retry_exhaustions"`
	RepairAdded         int `json:"repair_added"`
	RepairRemoved       int `json:"repair_removed"`
}

// Result is the output of a generation run.
type Result struct {
	Days           []string
	Grid           Grid
	Rooms          RoomOccupancy
	SectionsTaught map[string][]string
	Stats          Stats
}

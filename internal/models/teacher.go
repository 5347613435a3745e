package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Teacher is the roster record the generation snapshot is built from.
// SubjectSections and SectionsTaught are JSON documents: the former maps a
// subject code to the sections the teacher may take it in, the latter is the
// reconciled section list written back after each run.
type Teacher struct {
	ID              string         `db:"id" json:"id"`
	Name            string         `db:"name" json:"name"`
	Email           *string        `db:"email" json:"email,omitempty"`
	Available       bool           `db:"available" json:"available"`
	LectureLimit    *int           `db:"lecture_limit" json:"lecture_limit,omitempty"`
	SubjectSections types.JSONText `db:"subject_sections" json:"subject_sections"`
	SectionsTaught  types.JSONText `db:"sections_taught" json:"sections_taught"`
	EarliestTime    *string        `db:"earliest_time" json:"earliest_time,omitempty"`
	LatestTime      *string        `db:"latest_time" json:"latest_time,omitempty"`
	UnavailableDays types.JSONText `db:"unavailable_days" json:"unavailable_days"`
	PreferredDays   types.JSONText `db:"preferred_days" json:"preferred_days"`
	PreferredSlots  types.JSONText `db:"preferred_slots" json:"preferred_slots"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// TeacherFilter describes query params for listing teachers.
type TeacherFilter struct {
	Search    string
	Available *bool
	Page      int
	PageSize  int
}

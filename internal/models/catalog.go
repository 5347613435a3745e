package models

// Course is a degree programme offered by the institution.
type Course struct {
	ID        string `db:"id" json:"id"`
	Code      string `db:"code" json:"code"`
	Name      string `db:"name" json:"name"`
	Semesters int    `db:"semesters" json:"semesters"`
}

// Section is a named student cohort sharing one weekly calendar.
type Section struct {
	ID         string `db:"id" json:"id"`
	CourseCode string `db:"course_code" json:"course_code"`
	Name       string `db:"name" json:"name"`
	Size       *int   `db:"size" json:"size,omitempty"`
}

// Subject is one catalog entry for a course semester. Lab subjects schedule
// as two-hour blocks; NoDoubleBlock subjects may never. ExclusiveSection,
// when set, offers the subject to a single section only.
type Subject struct {
	ID               string  `db:"id" json:"id"`
	Code             string  `db:"code" json:"code"`
	Name             string  `db:"name" json:"name"`
	CourseCode       string  `db:"course_code" json:"course_code"`
	Semester         int     `db:"semester" json:"semester"`
	Lab              bool    `db:"lab" json:"lab"`
	NoDoubleBlock    bool    `db:"no_double_block" json:"no_double_block"`
	ExclusiveSection *string `db:"exclusive_section" json:"exclusive_section,omitempty"`
}

package models

// SubjectDependency is a directed soft-ordering edge between two subject
// codes, consumed by theory placement as a scheduling hint only.
type SubjectDependency struct {
	ID                   string `db:"id" json:"id"`
	SubjectCode          string `db:"subject_code" json:"subject_code"`
	DependentSubjectCode string `db:"dependent_subject_code" json:"dependent_subject_code"`
	DependencyType       string `db:"dependency_type" json:"dependency_type"`
	Priority             int    `db:"priority" json:"priority"`
	GapDays              int    `db:"gap_days" json:"gap_days"`
	SameDay              bool   `db:"same_day" json:"same_day"`
	Active               bool   `db:"active" json:"active"`
}

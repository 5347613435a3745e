package models

// ElectiveEnrollment is one subject's headcount inside an elective group.
type ElectiveEnrollment struct {
	ID               string `db:"id" json:"id"`
	ElectiveGroupID  string `db:"elective_group_id" json:"elective_group_id"`
	SubjectCode      string `db:"subject_code" json:"subject_code"`
	EnrolledStudents int    `db:"enrolled_students" json:"enrolled_students"`
}

// ElectiveGroupAggregate is the per-group rollup the engine sizes lecture
// theatres from.
type ElectiveGroupAggregate struct {
	GroupID       string   `json:"group_id"`
	TotalStudents int      `json:"total_students"`
	Subjects      []string `json:"subjects"`
}

package dto

// GenerateTimetableRequest triggers a fresh generation run. A missing or
// unparseable date means "this week": generation falls back to today.
type GenerateTimetableRequest struct {
	Date     string `json:"date" binding:"omitempty,max=16"`
	Course   string `json:"course" binding:"omitempty,max=64"`
	Semester int    `json:"semester" binding:"omitempty,min=1,max=12"`
	Seed     *int64 `json:"seed" binding:"omitempty"`
}

// TimetableQuery filters timetable lookups.
type TimetableQuery struct {
	Date     string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Course   string `form:"course" binding:"omitempty,max=64"`
	Semester int    `form:"semester" binding:"omitempty,min=1,max=12"`
	Section  string `form:"section" binding:"omitempty,max=8"`
}

// ExportQuery selects the export format for a stored timetable.
type ExportQuery struct {
	Date    string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Format  string `form:"format" binding:"omitempty,oneof=csv pdf"`
	Section string `form:"section" binding:"omitempty,max=8"`
}

package dto

// CreateTeacherRequest registers a roster entry.
type CreateTeacherRequest struct {
	Name            string              `json:"name" binding:"required,min=2,max=128"`
	Email           *string             `json:"email" binding:"omitempty,email"`
	Available       *bool               `json:"available" binding:"omitempty"`
	LectureLimit    *int                `json:"lecture_limit" binding:"omitempty,min=0,max=40"`
	SubjectSections map[string][]string `json:"subject_sections" binding:"omitempty"`
}

// UpdateAvailabilityRequest toggles whether a teacher is schedulable.
type UpdateAvailabilityRequest struct {
	Available bool `json:"available"`
}

// UpdateLectureLimitRequest sets or clears the weekly lecture target. A nil
// limit removes the target and exempts the teacher from repair.
type UpdateLectureLimitRequest struct {
	LectureLimit *int `json:"lecture_limit" binding:"omitempty,min=0,max=40"`
}

// UpdateSubjectSectionsRequest replaces a teacher's subject authorizations.
type UpdateSubjectSectionsRequest struct {
	SubjectSections map[string][]string `json:"subject_sections" binding:"required"`
}

// UpdatePreferencesRequest replaces a teacher's soft scheduling window.
type UpdatePreferencesRequest struct {
	EarliestTime    *string  `json:"earliest_time" binding:"omitempty,len=5"`
	LatestTime      *string  `json:"latest_time" binding:"omitempty,len=5"`
	UnavailableDays []string `json:"unavailable_days" binding:"omitempty,dive,max=16"`
	PreferredDays   []string `json:"preferred_days" binding:"omitempty,dive,max=16"`
	PreferredSlots  []string `json:"preferred_slots" binding:"omitempty,dive,max=16"`
}

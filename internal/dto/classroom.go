package dto

// CreateClassroomRequest registers a schedulable room.
type CreateClassroomRequest struct {
	RoomNumber string   `json:"room_number" binding:"required,min=1,max=32"`
	Building   *string  `json:"building" binding:"omitempty,max=64"`
	Floor      *int     `json:"floor" binding:"omitempty"`
	Capacity   int      `json:"capacity" binding:"required,min=1,max=500"`
	RoomType   string   `json:"room_type" binding:"required,oneof=LECTURE LAB"`
	Subjects   []string `json:"subjects" binding:"omitempty,dive,max=32"`
}

// UpdateClassroomRequest partially updates a room record.
type UpdateClassroomRequest struct {
	Building *string  `json:"building" binding:"omitempty,max=64"`
	Floor    *int     `json:"floor" binding:"omitempty"`
	Capacity *int     `json:"capacity" binding:"omitempty,min=1,max=500"`
	RoomType *string  `json:"room_type" binding:"omitempty,oneof=LECTURE LAB"`
	Subjects []string `json:"subjects" binding:"omitempty,dive,max=32"`
	Active   *bool    `json:"active" binding:"omitempty"`
}

package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Timetable is one stored generation run: the serialized grid keyed by its
// start date, valid through the six-day window ending at EndDate.
type Timetable struct {
	ID        string         `db:"id" json:"id"`
	StartDate string         `db:"start_date" json:"start_date"`
	EndDate   string         `db:"end_date" json:"end_date"`
	Course    string         `db:"course" json:"course"`
	Semester  int            `db:"semester" json:"semester"`
	Data      types.JSONText `db:"data" json:"data"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// RoomUtilization is the per-room usage report derived from a stored grid.
type RoomUtilization struct {
	RoomNumber            string                     `json:"room_number"`
	RoomType              string                     `json:"room_type"`
	Capacity              int                        `json:"capacity"`
	UsedSlots             int                        `json:"used_slots"`
	TotalSlots            int                        `json:"total_slots"`
	UtilizationPercentage float64                    `json:"utilization_percentage"`
	Schedule              map[string][]RoomSlotUsage `json:"schedule"`
}

// RoomSlotUsage is one occupied slot inside a utilization report.
type RoomSlotUsage struct {
	TimeSlot string `json:"time_slot"`
	Section  string `json:"section"`
	Subject  string `json:"subject"`
	Teacher  string `json:"teacher,omitempty"`
}

// RoomConflict flags a (day, slot, room) triple claimed by more than one
// section.
type RoomConflict struct {
	Day         string          `json:"day"`
	TimeSlot    string          `json:"time_slot"`
	Room        string          `json:"room"`
	Assignments []RoomSlotUsage `json:"assignments"`
}

package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Classroom is a schedulable room. Subjects, when present, reserves the room
// for the listed subject codes; the allocator prefers such rooms for their
// subjects and skips them for everything else.
type Classroom struct {
	ID         string         `db:"id" json:"id"`
	RoomNumber string         `db:"room_number" json:"room_number"`
	Building   *string        `db:"building" json:"building,omitempty"`
	Floor      *int           `db:"floor" json:"floor,omitempty"`
	Capacity   int            `db:"capacity" json:"capacity"`
	RoomType   string         `db:"room_type" json:"room_type"`
	Subjects   types.JSONText `db:"subjects" json:"subjects"`
	Active     bool           `db:"active" json:"active"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

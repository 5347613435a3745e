package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateRoomPrefersSubjectSpecific(t *testing.T) {
	snap := baseSnapshot()
	snap.Classrooms = []Classroom{
		{RoomNumber: "CR1", Capacity: 70, RoomType: RoomTypeLecture},
		{RoomNumber: "CR2", Capacity: 70, RoomType: RoomTypeLecture, Subjects: []string{"TCS-501"}},
	}
	r := newTestRun(t, snap, 1)

	assert.Equal(t, "CR2", r.allocateRoom("A", "TCS-501", "Monday", "8:00-9:00"))
	// A subject the reserved room does not list falls through to the
	// general-purpose room.
	assert.Equal(t, "CR1", r.allocateRoom("A", "TCS-502", "Monday", "8:00-9:00"))
}

func TestAllocateRoomFiltersTypeAndCapacity(t *testing.T) {
	snap := baseSnapshot()
	snap.Classrooms = []Classroom{
		{RoomNumber: "LAB1", Capacity: 70, RoomType: RoomTypeLab},
		{RoomNumber: "CR1", Capacity: 40, RoomType: RoomTypeLecture},
		{RoomNumber: "CR2", Capacity: 65, RoomType: RoomTypeLecture},
	}
	r := newTestRun(t, snap, 1)

	// Section A estimates at the regular size of 60; CR1 is too small.
	assert.Equal(t, "CR2", r.allocateRoom("A", "TCS-501", "Monday", "8:00-9:00"))
	// Lab subjects need lab rooms.
	assert.Equal(t, "LAB1", r.allocateRoom("A", "PCS-503", "Monday", "8:00-9:00", "9:00-10:00"))
	// No lecture room seats a 200-strong section.
	snap.SectionSizes = map[string]int{"A": 200}
	r = newTestRun(t, snap, 1)
	assert.Equal(t, "", r.allocateRoom("A", "TCS-501", "Monday", "8:00-9:00"))
}

func TestAllocateRoomSkipsOccupied(t *testing.T) {
	snap := baseSnapshot()
	snap.Classrooms = []Classroom{
		{RoomNumber: "CR1", Capacity: 70, RoomType: RoomTypeLecture},
		{RoomNumber: "CR2", Capacity: 70, RoomType: RoomTypeLecture},
	}
	r := newTestRun(t, snap, 1)

	r.occupyRoom("CR1", "Monday", "B", "8:00-9:00")
	assert.False(t, r.roomFree("CR1", "Monday", "8:00-9:00"))
	assert.True(t, r.roomFree("CR1", "Monday", "9:00-10:00"))
	assert.Equal(t, "CR2", r.allocateRoom("A", "TCS-501", "Monday", "8:00-9:00"))

	// Double blocks need both slots free.
	r.occupyRoom("CR2", "Monday", "B", "9:00-10:00")
	assert.Equal(t, "", r.allocateRoom("A", "TCS-501", "Monday", "8:00-9:00", "9:00-10:00"))
}

func TestSectionSizeFallbacks(t *testing.T) {
	snap := baseSnapshot()
	snap.SectionSizes = map[string]int{"A": 45}
	snap.Sections = []string{"A", "B", "ML1"}
	r := newTestRun(t, snap, 1)

	assert.Equal(t, 45, r.sectionSize("A"))
	assert.Equal(t, 60, r.sectionSize("B"))
	assert.Equal(t, 30, r.sectionSize("ML1"))
}

func TestElectiveRoomTiers(t *testing.T) {
	r := newTestRun(t, baseSnapshot(), 1)

	counter := 1
	assert.Equal(t, []string{"CR1"}, r.electiveRooms(55, &counter))
	assert.Equal(t, []string{"LT1"}, r.electiveRooms(90, &counter))
	// 230 students: the first theatre plus ceil(130/100) more.
	rooms := r.electiveRooms(230, &counter)
	assert.Equal(t, []string{"LT2", "LT3", "LT4"}, rooms)
}

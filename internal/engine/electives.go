package engine

import (
	"fmt"
	"math/rand"
	"sort"
)

// Elective lecture-theatre tiering: one LT covers up to 100 students, a
// plain classroom up to 60.
const (
	lectureTheatreCapacity = 100
	classroomCapacity      = 60
)

// placeElectives pre-fills the shared elective window: two random working
// days (Saturday excluded) and one of the two canonical slot pairs, common
// to all sections. Each group's room allocation is sized by aggregate
// enrollment; occupancy for the shared room is deliberately non-exclusive,
// since all sections funnel into the same facility.
func (r *run) placeElectives() {
	if len(r.snap.ElectiveGroups) == 0 {
		return
	}

	var candidates []string
	for _, day := range r.days {
		if day != "Saturday" {
			candidates = append(candidates, day)
		}
	}
	r.electiveDays = sampleTwo(r.rng, candidates)
	pair := electiveSlotPairs[r.rng.Intn(len(electiveSlotPairs))]
	r.electiveSlots = pair[:]

	groups := make([]ElectiveGroup, len(r.snap.ElectiveGroups))
	copy(groups, r.snap.ElectiveGroups)
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })

	ltCounter := 1
	for _, group := range groups {
		rooms := r.electiveRooms(group.TotalStudents, &ltCounter)

		for _, section := range r.snap.Sections {
			for _, day := range r.electiveDays {
				for _, slot := range r.electiveSlots {
					if _, taken := r.grid[section][day][slot]; taken {
						continue
					}
					r.assign(section, day, slot, Assignment{
						Subject:          fmt.Sprintf("Elective Group %s", group.ID),
						Teacher:          TeacherElectiveFaculty,
						Room:             rooms[0],
						ElectiveSubjects: group.Subjects,
						TotalStudents:    group.TotalStudents,
					})
					r.occupyRoom(rooms[0], day, section, slot)
				}
			}
		}
	}
}

// electiveRooms applies the lecture-theatre tiers: >100 students spread over
// however many theatres the remainder needs, 61-100 a single theatre, and
// anything smaller a plain classroom.
func (r *run) electiveRooms(totalStudents int, ltCounter *int) []string {
	nextLT := func() string {
		room := fmt.Sprintf("LT%d", *ltCounter)
		*ltCounter++
		return room
	}

	switch {
	case totalStudents > lectureTheatreCapacity:
		rooms := []string{nextLT()}
		remaining := totalStudents - lectureTheatreCapacity
		if remaining > 0 {
			additional := remaining/lectureTheatreCapacity + 1
			for i := 0; i < additional; i++ {
				rooms = append(rooms, nextLT())
			}
		}
		return rooms
	case totalStudents > classroomCapacity:
		return []string{nextLT()}
	default:
		return []string{"CR1"}
	}
}

// sampleTwo draws two distinct entries uniformly, preserving no order
// guarantee beyond determinism for a fixed random source.
func sampleTwo(rng *rand.Rand, pool []string) []string {
	if len(pool) <= 2 {
		return append([]string(nil), pool...)
	}
	first := rng.Intn(len(pool))
	second := rng.Intn(len(pool) - 1)
	if second >= first {
		second++
	}
	return []string{pool[first], pool[second]}
}

package engine

// allocateRoom picks a room for (section, subject) covering every slot in
// slots on day, or "" when no candidate fits. Lab-marked subjects need lab
// rooms, everything else a lecture room. Rooms explicitly reserved for the
// subject outrank general-purpose rooms; within a tier the first available
// candidate wins. Callers record occupancy after a successful allocation.
func (r *run) allocateRoom(section, subject, day string, slots ...string) string {
	if len(r.snap.Classrooms) == 0 {
		return ""
	}

	required := RoomTypeLecture
	if r.subjects[subject].Lab {
		required = RoomTypeLab
	}
	size := r.sectionSize(section)

	var subjectSpecific, general []Classroom
	for _, room := range r.snap.Classrooms {
		if room.RoomType != required || room.Capacity < size {
			continue
		}
		free := true
		for _, slot := range slots {
			if !r.roomFree(room.RoomNumber, day, slot) {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		if len(room.Subjects) > 0 {
			if contains(room.Subjects, subject) {
				subjectSpecific = append(subjectSpecific, room)
			}
			continue
		}
		general = append(general, room)
	}

	if len(subjectSpecific) > 0 {
		return subjectSpecific[0].RoomNumber
	}
	if len(general) > 0 {
		return general[0].RoomNumber
	}
	return ""
}

// roomFree is a pure lookup: true unless the exact (room, day, slot) triple
// is already recorded occupied.
func (r *run) roomFree(room, day, slot string) bool {
	byDay, ok := r.rooms[room]
	if !ok {
		return true
	}
	bySlot, ok := byDay[day]
	if !ok {
		return true
	}
	_, taken := bySlot[slot]
	return !taken
}

// occupyRoom records the room as held by section for each slot on day.
func (r *run) occupyRoom(room, day, section string, slots ...string) {
	if room == "" {
		return
	}
	if r.rooms[room] == nil {
		r.rooms[room] = make(map[string]map[string]string)
	}
	if r.rooms[room][day] == nil {
		r.rooms[room][day] = make(map[string]string)
	}
	for _, slot := range slots {
		r.rooms[room][day][slot] = section
	}
}

// sectionSize estimates enrollment: the explicit table first, then the
// regular-section default, then the small default.
func (r *run) sectionSize(section string) int {
	if size, ok := r.snap.SectionSizes[section]; ok && size > 0 {
		return size
	}
	if contains(r.cfg.RegularSections, section) {
		return r.cfg.RegularSectionSize
	}
	return r.cfg.SmallSectionSize
}

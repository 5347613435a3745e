package engine

// placeLabs schedules two double-hour occurrences of every lab subject for
// the section via bounded random search: each attempt draws a random day
// and scans the morning slots for the first adjacent empty pair outside the
// elective window. Exhausting the retry budget leaves the subject
// under-scheduled and bumps the exhaustion counter; that is not an error.
func (r *run) placeLabs(section string) {
	for _, lab := range r.labSubjects() {
		placed := 0
		attempts := 0

		for placed < 2 && attempts < r.cfg.LabRetryBudget {
			attempts++
			day := r.days[r.rng.Intn(len(r.days))]

			for _, slot := range morningSlots {
				if r.inElectiveWindow(day, slot) {
					continue
				}
				next := nextSlot(slot)
				if next == "" || !contains(morningSlots, next) {
					continue
				}
				if _, taken := r.grid[section][day][slot]; taken {
					continue
				}
				if _, taken := r.grid[section][day][next]; taken {
					continue
				}

				candidates := r.validTeachers(lab.Code, section)
				if len(candidates) == 0 {
					continue
				}
				teacher := candidates[r.rng.Intn(len(candidates))]
				if !r.isValidPlacement(section, day, slot, teacher, lab.Code, DoubleHour) {
					continue
				}

				room := r.allocateRoom(section, lab.Code, day, slot, next)
				r.occupyRoom(room, day, section, slot, next)

				r.assign(section, day, slot, Assignment{Subject: lab.Code, Teacher: teacher, Room: room})
				r.assign(section, day, next, Assignment{Subject: lab.Code, Teacher: teacher, Room: room})
				r.recordTaught(teacher, section)
				placed++
				break
			}
		}

		if placed < 2 {
			r.stats.LabRetryExhaustions++
		}
	}
}

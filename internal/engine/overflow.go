package engine

// placeOverflow runs after the morning pass. Sections under the weekly
// density target get a lunch marker on every day and spill into the
// afternoon slots until the non-lunch total reaches the fill ceiling.
// Afternoon fills draw from the full core pool with no prerequisite or
// clustering filtering.
func (r *run) placeOverflow(section string) {
	pool := r.corePool(section)

	morningFilled := 0
	for _, day := range r.days {
		for _, slot := range morningSlots {
			if cell, ok := r.grid[section][day][slot]; ok && cell.Subject != SubjectLunch {
				morningFilled++
			}
		}
	}
	if morningFilled >= r.cfg.MorningDensityTarget {
		return
	}

	for _, day := range r.days {
		r.grid[section][day][lunchSlot] = Assignment{Subject: SubjectLunch}
	}

	for _, day := range r.days {
		for _, slot := range afternoonSlots {
			if r.filledNonLunch(section) >= r.cfg.WeeklyFillCeiling {
				break
			}
			if _, taken := r.grid[section][day][slot]; taken {
				continue
			}
			if len(pool) == 0 {
				continue
			}

			subject := pool[r.rng.Intn(len(pool))]
			candidates := r.validTeachers(subject, section)
			if len(candidates) == 0 {
				continue
			}
			teacher := candidates[r.rng.Intn(len(candidates))]
			if !r.isValidPlacement(section, day, slot, teacher, subject, SingleHour) {
				continue
			}

			room := r.allocateRoom(section, subject, day, slot)
			r.occupyRoom(room, day, section, slot)

			r.assign(section, day, slot, Assignment{Subject: subject, Teacher: teacher, Room: room})
			r.recordTaught(teacher, section)
		}
	}
}

// filledNonLunch counts the section's filled cells across the whole week,
// lunch excluded.
func (r *run) filledNonLunch(section string) int {
	count := 0
	for _, day := range r.days {
		for _, slot := range timeSlots {
			if slot == lunchSlot {
				continue
			}
			if cell, ok := r.grid[section][day][slot]; ok && cell.Subject != SubjectLunch {
				count++
			}
		}
	}
	return count
}

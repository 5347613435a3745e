package engine

// repairLectureLimits is the single-pass post-hoc repair: teachers with an
// explicit positive weekly limit get sessions injected into empty cells
// while under it, or their own placements deleted while over it. Scan order
// is fixed (sections, then days, then slots) and the pass is silent when a
// limit cannot be met; callers treat limits as soft targets.
func (r *run) repairLectureLimits() {
	for _, name := range sortedTeacherNames(r.snap.Teachers) {
		limit := r.snap.Teachers[name].WeeklyLimit
		if limit <= 0 {
			continue
		}
		current := r.weeklyCount(name)
		switch {
		case current < limit:
			r.injectSessions(name, limit)
		case current > limit:
			r.removeSessions(name, current-limit)
		}
	}
}

func (r *run) injectSessions(teacher string, limit int) {
	for _, section := range r.snap.Sections {
		pool := r.fullPool(section)
		if len(pool) == 0 {
			continue
		}
		for _, day := range r.days {
			for _, slot := range timeSlots {
				if slot == lunchSlot || r.inElectiveWindow(day, slot) {
					continue
				}
				if _, taken := r.grid[section][day][slot]; taken {
					continue
				}

				subject := pool[r.rng.Intn(len(pool))]
				if !contains(r.snap.SubjectTeachers[subject], teacher) {
					continue
				}
				if !r.authorized(teacher, subject, section) {
					continue
				}
				if !r.isValidPlacement(section, day, slot, teacher, subject, SingleHour) {
					continue
				}

				r.assign(section, day, slot, Assignment{Subject: subject, Teacher: teacher})
				r.stats.RepairAdded++
				if r.weeklyCount(teacher) >= limit {
					return
				}
			}
		}
	}
}

func (r *run) removeSessions(teacher string, excess int) {
	for _, section := range r.snap.Sections {
		for _, day := range r.days {
			for _, slot := range timeSlots {
				cell, ok := r.grid[section][day][slot]
				if !ok || cell.Teacher != teacher {
					continue
				}
				delete(r.grid[section][day], slot)
				r.stats.RepairRemoved++
				r.stats.PlacedSessions--
				excess--
				if excess == 0 {
					return
				}
			}
		}
	}
}

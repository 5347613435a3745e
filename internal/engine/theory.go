package engine

import "strings"

// lateWeekIndex is the day index from which unsatisfied prerequisites stop
// gating theory placement; by then the prerequisite may simply live later
// in the same week.
const lateWeekIndex = 3

// placeTheory fills the section's remaining morning cells. Subjects pass
// through two soft filters before the uniform draw: prerequisite gating
// (waived late in the week) and code-prefix topic clustering against the
// most recent prior-day subjects. Teacher choice is uniform over the
// authorized, available pool, then validated by the constraint checker.
func (r *run) placeTheory(section string) {
	theoryPool := r.corePool(section)
	if len(theoryPool) == 0 {
		return
	}

	for dayIndex, day := range r.days {
		for _, slot := range morningSlots {
			if r.inElectiveWindow(day, slot) {
				continue
			}
			if _, taken := r.grid[section][day][slot]; taken {
				continue
			}

			prioritized := r.prioritizeByPrerequisites(section, theoryPool, dayIndex)

			pool := prioritized
			if len(pool) == 0 {
				pool = theoryPool
			}
			if clustered := r.clusterByTopic(section, day, prioritized); len(clustered) > 0 {
				pool = clustered
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

// prioritizeByPrerequisites keeps subjects whose prerequisite edges are all
// satisfied — the prerequisite already appears somewhere in this section's
// calendar — or whose gate is waived because the week is nearly over.
func (r *run) prioritizeByPrerequisites(section string, pool []string, dayIndex int) []string {
	lateInWeek := dayIndex >= lateWeekIndex

	var prioritized []string
	for _, subject := range pool {
		unsatisfied := false
		for _, dep := range r.snap.Dependencies[subject] {
			if dep.Type != DependencyTypePrerequisite {
				continue
			}
			if !r.subjectScheduled(section, dep.Code) {
				unsatisfied = true
				break
			}
		}
		if !unsatisfied || lateInWeek {
			prioritized = append(prioritized, subject)
		}
	}
	return prioritized
}

// subjectScheduled reports whether the subject appears anywhere in the
// section's calendar so far.
func (r *run) subjectScheduled(section, subject string) bool {
	for _, day := range r.days {
		for _, slot := range timeSlots {
			if cell, ok := r.grid[section][day][slot]; ok && cell.Subject == subject {
				return true
			}
		}
	}
	return false
}

// clusterByTopic narrows the pool to subjects sharing a code prefix (the
// part before the first hyphen) with one of the two most recent distinct
// subjects from prior days. An empty return means no clustering applies.
func (r *run) clusterByTopic(section, day string, pool []string) []string {
	if len(pool) <= 1 {
		return nil
	}
	recent := r.recentSubjects(section, day)
	if len(recent) == 0 {
		return nil
	}

	var clustered []string
	for _, rs := range recent {
		for _, ps := range pool {
			if codePrefix(rs) == codePrefix(ps) && !contains(clustered, ps) {
				clustered = append(clustered, ps)
			}
		}
	}
	return clustered
}

// recentSubjects returns the last two distinct subjects scheduled on days
// before day, in slot order, skipping lunch and elective placeholders.
func (r *run) recentSubjects(section, day string) []string {
	var seen []string
	for _, past := range r.days {
		if past == day {
			break
		}
		for _, slot := range timeSlots {
			cell, ok := r.grid[section][past][slot]
			if !ok {
				continue
			}
			if cell.Subject == SubjectLunch || cell.Teacher == TeacherElectiveFaculty {
				continue
			}
			seen = append(seen, cell.Subject)
		}
	}

	var distinct []string
	for i := len(seen) - 1; i >= 0 && len(distinct) < 2; i-- {
		if !contains(distinct, seen[i]) {
			distinct = append(distinct, seen[i])
		}
	}
	return distinct
}

func codePrefix(code string) string {
	if idx := strings.Index(code, "-"); idx > 0 {
		return code[:idx]
	}
	return code
}

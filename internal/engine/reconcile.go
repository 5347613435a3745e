package engine

import "sort"

// reconcile recomputes which sections each recorded teacher actually ended
// up teaching, scanning the final grid. Teachers with no surviving
// non-sentinel assignment (possible after repair deletions) are dropped
// from the mapping entirely.
func (r *run) reconcile() map[string][]string {
	names := make([]string, 0, len(r.taught))
	for name := range r.taught {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string][]string, len(names))
	for _, name := range names {
		var sections []string
		for _, section := range r.snap.Sections {
			if r.teachesSection(name, section) {
				sections = append(sections, section)
			}
		}
		if len(sections) > 0 {
			out[name] = sections
		}
	}
	return out
}

func (r *run) teachesSection(teacher, section string) bool {
	for _, day := range r.days {
		for _, slot := range timeSlots {
			cell, ok := r.grid[section][day][slot]
			if !ok || cell.Teacher == TeacherRespective {
				continue
			}
			if cell.Teacher == teacher {
				return true
			}
		}
	}
	return false
}

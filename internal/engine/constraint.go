package engine

import "strings"

// isValidPlacement decides whether (teacher, subject) may be placed at
// (section, day, slot) for the given length, against the grid so far. It is
// a pure predicate over the run state: no side effects, callable any number
// of times. Checks run in a fixed order; the first failure rejects.
func (r *run) isValidPlacement(section, day, slot, teacher, subject string, length SessionLength) bool {
	// 1. Explicit unavailability. Teachers absent from the snapshot default
	// to available, matching the sentinel-teacher case.
	if t, ok := r.snap.Teachers[teacher]; ok && !t.Available {
		return false
	}

	// 2. Preference window.
	if !r.withinPreferences(teacher, day, slot) {
		return false
	}

	// 3. Daily and weekly lecture caps.
	if !r.withinLectureCaps(teacher, day, length) {
		return false
	}

	// 4. Authorization: a restricted section list for this subject must
	// include the target section.
	if bySubject, ok := r.snap.Authorizations[teacher]; ok {
		if sections, ok := bySubject[subject]; ok && !contains(sections, section) {
			return false
		}
	}

	next := ""
	if length == DoubleHour {
		next = nextSlot(slot)
		if next == "" {
			return false
		}
	}

	// 5. Same-section double-booking at this slot, or at the paired slot for
	// double blocks.
	for _, ts := range timeSlots {
		cell, ok := r.grid[section][day][ts]
		if !ok {
			continue
		}
		if ts == slot || (length == DoubleHour && ts == next) {
			if cell.Teacher == teacher {
				return false
			}
		}
	}

	// 6. Some subjects may never run as a two-hour block.
	if length == DoubleHour && r.subjects[subject].NoDoubleBlock {
		return false
	}

	// 7. Double blocks cannot extend into a slot the teacher already holds,
	// nor abut a preceding non-extendable subject.
	if length == DoubleHour {
		if cell, ok := r.grid[section][day][next]; ok && cell.Teacher == teacher {
			return false
		}
		if prev := prevSlot(slot); prev != "" {
			if cell, ok := r.grid[section][day][prev]; ok && r.subjects[cell.Subject].NoDoubleBlock {
				return false
			}
		}
	}

	// 8. Cross-section conflict: reject when the teacher already holds the
	// slot (or its pair) in another section the authorization map also
	// permits for this subject.
	for _, sec := range r.snap.Sections {
		if sec == section {
			continue
		}
		for _, ts := range timeSlots {
			cell, ok := r.grid[sec][day][ts]
			if !ok || cell.Teacher != teacher {
				continue
			}
			if ts != slot && !(length == DoubleHour && ts == next) {
				continue
			}
			if bySubject, ok := r.snap.Authorizations[teacher]; ok {
				if sections, ok := bySubject[subject]; ok && contains(sections, sec) {
					return false
				}
			}
		}
	}

	return true
}

// withinPreferences applies the teacher's preference window: unavailable
// days, and earliest/latest start bounds compared on "HH:MM" prefixes.
func (r *run) withinPreferences(teacher, day, slot string) bool {
	t, ok := r.snap.Teachers[teacher]
	if !ok || t.Preferences == nil {
		return true
	}
	prefs := t.Preferences

	if contains(prefs.UnavailableDays, day) {
		return false
	}

	if prefs.EarliestStart == "" && prefs.LatestStart == "" {
		return true
	}
	start := slotStart(slot)
	if prefs.EarliestStart != "" && start < prefs.EarliestStart {
		return false
	}
	if prefs.LatestStart != "" && start >= prefs.LatestStart {
		return false
	}
	return true
}

// withinLectureCaps enforces the daily 4/5 rule and the weekly cap. The
// daily cap is 5 only while the teacher is under 15 weekly and 4 daily
// sessions; otherwise it drops to 4.
func (r *run) withinLectureCaps(teacher, day string, length SessionLength) bool {
	daily := r.dailyCount(teacher, day)
	weekly := r.weeklyCount(teacher)

	maxDaily := 4
	if weekly < r.cfg.WeeklyCap && daily < 4 {
		maxDaily = 5
	}
	if daily+int(length) > maxDaily {
		return false
	}
	if weekly+int(length) > r.cfg.WeeklyCap {
		return false
	}
	return true
}

// dailyCount is the teacher's assigned slot count on day across every
// section's calendar.
func (r *run) dailyCount(teacher, day string) int {
	count := 0
	for _, section := range r.snap.Sections {
		for _, cell := range r.grid[section][day] {
			if cell.Teacher == teacher {
				count++
			}
		}
	}
	return count
}

// weeklyCount is the teacher's total assigned slot count grid-wide.
func (r *run) weeklyCount(teacher string) int {
	count := 0
	for _, section := range r.snap.Sections {
		for _, day := range r.days {
			for _, cell := range r.grid[section][day] {
				if cell.Teacher == teacher {
					count++
				}
			}
		}
	}
	return count
}

func slotStart(slot string) string {
	if idx := strings.Index(slot, "-"); idx > 0 {
		return slot[:idx]
	}
	return slot
}

package engine

import "time"

const workingDays = 6

// BuildWeek returns the ordered labels of the six working days starting at
// start, advancing one calendar day at a time and skipping restDay. A zero
// start falls back to the current date.
func BuildWeek(start time.Time, restDay time.Weekday) []string {
	if start.IsZero() {
		start = time.Now()
	}

	days := make([]string, 0, workingDays)
	current := start
	for len(days) < workingDays {
		if current.Weekday() != restDay {
			days = append(days, current.Weekday().String())
		}
		current = current.AddDate(0, 0, 1)
	}
	return days
}

package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStart() time.Time {
	// A Monday, so the working week is Monday..Saturday.
	return time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
}

func newTestRun(t *testing.T, snap Snapshot, seed int64) *run {
	t.Helper()
	if snap.StartDate.IsZero() {
		snap.StartDate = testStart()
	}
	e := New(Config{}, rand.New(rand.NewSource(seed)), nil)
	return newRun(e, snap)
}

func baseSnapshot() Snapshot {
	return Snapshot{
		StartDate: testStart(),
		Sections:  []string{"A", "B"},
		Subjects: []Subject{
			{Code: "TCS-501"},
			{Code: "TCS-502"},
			{Code: "XCS-401", NoDoubleBlock: true},
			{Code: "PCS-503", Lab: true},
		},
		Teachers: map[string]Teacher{
			"Asha":  {Name: "Asha", Available: true},
			"Bikas": {Name: "Bikas", Available: true},
		},
		SubjectTeachers: map[string][]string{
			"TCS-501": {"Asha"},
			"TCS-502": {"Bikas"},
			"PCS-503": {"Asha", "Bikas"},
		},
		Authorizations: map[string]map[string][]string{
			"Asha":  {"TCS-501": {"A", "B"}, "PCS-503": {"A"}},
			"Bikas": {"TCS-502": {"A"}, "PCS-503": {"A"}},
		},
	}
}

func TestPlacementRejectsUnavailableTeacher(t *testing.T) {
	snap := baseSnapshot()
	teacher := snap.Teachers["Asha"]
	teacher.Available = false
	snap.Teachers["Asha"] = teacher

	r := newTestRun(t, snap, 1)
	assert.False(t, r.isValidPlacement("A", r.days[0], "8:00-9:00", "Asha", "TCS-501", SingleHour))
	// Teachers absent from the snapshot default to available.
	assert.True(t, r.isValidPlacement("A", r.days[0], "8:00-9:00", "Unknown", "TCS-501", SingleHour))
}

func TestPlacementHonoursPreferenceWindow(t *testing.T) {
	snap := baseSnapshot()
	teacher := snap.Teachers["Asha"]
	teacher.Preferences = &PreferenceWindow{
		EarliestStart:   "10:00",
		LatestStart:     "14:00",
		UnavailableDays: []string{"Wednesday"},
	}
	snap.Teachers["Asha"] = teacher
	r := newTestRun(t, snap, 1)

	assert.False(t, r.isValidPlacement("A", "Wednesday", "10:00-11:00", "Asha", "TCS-501", SingleHour))
	assert.True(t, r.isValidPlacement("A", "Monday", "10:00-11:00", "Asha", "TCS-501", SingleHour))
	// At or past the latest bound is rejected.
	assert.False(t, r.isValidPlacement("A", "Monday", "14:00-15:00", "Asha", "TCS-501", SingleHour))
}

func TestPlacementDailyCap(t *testing.T) {
	snap := baseSnapshot()
	r := newTestRun(t, snap, 1)

	day := r.days[0]
	for _, slot := range []string{"8:00-9:00", "9:00-10:00", "10:00-11:00", "11:00-12:00"} {
		r.grid["A"][day][slot] = Assignment{Subject: "TCS-501", Teacher: "Asha"}
	}
	// Four sessions already today: the daily cap drops to 4.
	assert.False(t, r.isValidPlacement("A", day, "12:00-13:00", "Asha", "TCS-501", SingleHour))
	// A fresh day is fine.
	assert.True(t, r.isValidPlacement("A", r.days[1], "8:00-9:00", "Asha", "TCS-501", SingleHour))
}

func TestPlacementWeeklyCap(t *testing.T) {
	snap := baseSnapshot()
	r := newTestRun(t, snap, 1)

	// Fourteen sessions spread under the daily cap.
	slots := []string{"8:00-9:00", "9:00-10:00", "10:00-11:00"}
	filled := 0
	for _, day := range r.days {
		for _, slot := range slots {
			if filled == 14 {
				break
			}
			r.grid["A"][day][slot] = Assignment{Subject: "TCS-501", Teacher: "Asha"}
			filled++
		}
	}
	require.Equal(t, 14, r.weeklyCount("Asha"))

	// One more single fits; a double would push past the weekly cap.
	assert.True(t, r.isValidPlacement("A", r.days[5], "8:00-9:00", "Asha", "TCS-501", SingleHour))
	assert.False(t, r.isValidPlacement("A", r.days[5], "8:00-9:00", "Asha", "PCS-503", DoubleHour))
}

func TestPlacementAuthorizationRestriction(t *testing.T) {
	snap := baseSnapshot()
	r := newTestRun(t, snap, 1)

	// Bikas is only authorized for TCS-502 in section A.
	assert.True(t, r.isValidPlacement("A", r.days[0], "8:00-9:00", "Bikas", "TCS-502", SingleHour))
	assert.False(t, r.isValidPlacement("B", r.days[0], "8:00-9:00", "Bikas", "TCS-502", SingleHour))
}

func TestPlacementSameSectionDoubleBooking(t *testing.T) {
	snap := baseSnapshot()
	r := newTestRun(t, snap, 1)
	day := r.days[0]

	r.grid["A"][day]["9:00-10:00"] = Assignment{Subject: "TCS-501", Teacher: "Asha"}

	assert.False(t, r.isValidPlacement("A", day, "9:00-10:00", "Asha", "TCS-501", SingleHour))
	// A double starting one slot earlier would collide with the occupied pair.
	assert.False(t, r.isValidPlacement("A", day, "8:00-9:00", "Asha", "PCS-503", DoubleHour))
	// A different teacher at the same slot is the section's problem only if
	// the cell were free; occupied cells are guarded by the placement loops.
	assert.True(t, r.isValidPlacement("A", day, "10:00-11:00", "Asha", "TCS-501", SingleHour))
}

func TestPlacementNoDoubleBlockSubject(t *testing.T) {
	snap := baseSnapshot()
	r := newTestRun(t, snap, 1)
	day := r.days[0]

	assert.False(t, r.isValidPlacement("A", day, "8:00-9:00", "Asha", "XCS-401", DoubleHour))
	assert.True(t, r.isValidPlacement("A", day, "8:00-9:00", "Asha", "XCS-401", SingleHour))

	// A double block may not abut a preceding non-extendable subject.
	r.grid["A"][day]["8:00-9:00"] = Assignment{Subject: "XCS-401", Teacher: "Bikas"}
	assert.False(t, r.isValidPlacement("A", day, "9:00-10:00", "Asha", "PCS-503", DoubleHour))
}

func TestPlacementCrossSectionConflict(t *testing.T) {
	snap := baseSnapshot()
	r := newTestRun(t, snap, 1)
	day := r.days[0]

	// Asha already teaches section B at this slot; she is authorized for
	// TCS-501 in both sections, so section A is rejected.
	r.grid["B"][day]["9:00-10:00"] = Assignment{Subject: "TCS-501", Teacher: "Asha"}
	assert.False(t, r.isValidPlacement("A", day, "9:00-10:00", "Asha", "TCS-501", SingleHour))

	// For a subject whose authorization does not cover section B, the
	// cross-section check does not fire (preserved source behaviour).
	assert.True(t, r.isValidPlacement("A", day, "9:00-10:00", "Asha", "PCS-503", SingleHour))
}

func TestPlacementIsPure(t *testing.T) {
	snap := baseSnapshot()
	r := newTestRun(t, snap, 1)
	day := r.days[0]

	before := len(r.grid["A"][day])
	for i := 0; i < 5; i++ {
		r.isValidPlacement("A", day, "8:00-9:00", "Asha", "TCS-501", SingleHour)
	}
	assert.Equal(t, before, len(r.grid["A"][day]))
}

package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/engine"
	"github.com/noah-isme/campus-timetable-api/internal/models"
)

type stubReportTimetables struct {
	tt *models.Timetable
}

func (s *stubReportTimetables) GetByDate(ctx context.Context, date, course string, semester int) (*models.Timetable, error) {
	return s.tt, nil
}

func reportFixture(t *testing.T) *stubReportTimetables {
	t.Helper()

	result := engine.Result{
		Days: []string{"Monday", "Tuesday"},
		Grid: engine.Grid{
			"A": {
				"Monday": {
					"8:00-9:00":  {Subject: "TCS-501", Teacher: "Asha Verma", Room: "CR1"},
					"9:00-10:00": {Subject: "TCS-502", Teacher: "Bikas Rao", Room: "CR1"},
				},
			},
			"B": {
				"Monday": {
					"8:00-9:00": {Subject: "TCS-503", Teacher: "Chitra Iyer", Room: "CR1"},
				},
			},
		},
		Rooms: engine.RoomOccupancy{
			"CR1": {
				"Monday": {
					"8:00-9:00":  "A",
					"9:00-10:00": "A",
				},
			},
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	return &stubReportTimetables{tt: &models.Timetable{StartDate: "2025-09-01", Data: types.JSONText(data)}}
}

type stubReportClassrooms struct{}

func (stubReportClassrooms) ListActive(ctx context.Context) ([]models.Classroom, error) {
	return []models.Classroom{
		{RoomNumber: "CR1", Capacity: 60, RoomType: "LECTURE"},
		{RoomNumber: "CR2", Capacity: 60, RoomType: "LECTURE"},
	}, nil
}

func TestReportServiceRoomUtilization(t *testing.T) {
	svc := NewReportService(reportFixture(t), stubReportClassrooms{}, zap.NewNop())

	reports, err := svc.RoomUtilization(context.Background(), "2025-09-01", "BTech", 4)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	// Every grid cell referencing CR1 counts, including the shared
	// 8:00-9:00 slot the occupancy map records only once.
	report := reports[0]
	assert.Equal(t, "CR1", report.RoomNumber)
	assert.Equal(t, 60, report.Capacity)
	assert.Equal(t, 3, report.UsedSlots)
	assert.Equal(t, 48, report.TotalSlots)
	assert.InDelta(t, 100*3.0/48.0, report.UtilizationPercentage, 1e-9)

	monday := report.Schedule["Monday"]
	require.Len(t, monday, 3)
	assert.Equal(t, "TCS-501", monday[0].Subject)
	assert.Equal(t, "Asha Verma", monday[0].Teacher)
	assert.Equal(t, "B", monday[1].Section)
	assert.Equal(t, "TCS-502", monday[2].Subject)

	idle := reports[1]
	assert.Equal(t, "CR2", idle.RoomNumber)
	assert.Equal(t, 0, idle.UsedSlots)
	assert.Empty(t, idle.Schedule)
}

func TestReportServiceRoomConflicts(t *testing.T) {
	svc := NewReportService(reportFixture(t), stubReportClassrooms{}, zap.NewNop())

	conflicts, err := svc.RoomConflicts(context.Background(), "2025-09-01", "BTech", 4)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)

	conflict := conflicts[0]
	assert.Equal(t, "Monday", conflict.Day)
	assert.Equal(t, "8:00-9:00", conflict.TimeSlot)
	assert.Equal(t, "CR1", conflict.Room)
	assert.Len(t, conflict.Assignments, 2)
}

package service

import (
	"context"
	"encoding/json"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/engine"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

// totalWeeklySlots is the per-room denominator for utilization: 6 working
// days of 8 slots.
const totalWeeklySlots = 48

type reportTimetableProvider interface {
	GetByDate(ctx context.Context, date, course string, semester int) (*models.Timetable, error)
}

type reportClassroomRepository interface {
	ListActive(ctx context.Context) ([]models.Classroom, error)
}

// ReportService derives occupancy reports from stored generation runs.
type ReportService struct {
	timetables reportTimetableProvider
	classrooms reportClassroomRepository
	logger     *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(timetables reportTimetableProvider, classrooms reportClassroomRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{timetables: timetables, classrooms: classrooms, logger: logger}
}

// RoomUtilization reports per-room usage for the run covering the date.
func (s *ReportService) RoomUtilization(ctx context.Context, date, course string, semester int) ([]models.RoomUtilization, error) {
	result, err := s.loadResult(ctx, date, course, semester)
	if err != nil {
		return nil, err
	}

	rooms, err := s.classrooms.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	roomsByNumber := make(map[string]models.Classroom, len(rooms))
	for _, room := range rooms {
		roomsByNumber[room.RoomNumber] = room
	}

	// Usage is counted from the final grid itself, one count per cell
	// referencing the room. The occupancy map is an allocator aid and can
	// disagree with the grid after elective sharing and limit repair.
	schedules := map[string]map[string][]models.RoomSlotUsage{}
	sections := sortedKeys(result.Grid)
	for _, day := range result.Days {
		for _, slot := range engine.TimeSlots() {
			for _, section := range sections {
				cell, ok := result.Grid[section][day][slot]
				if !ok || cell.Room == "" {
					continue
				}
				if schedules[cell.Room] == nil {
					schedules[cell.Room] = map[string][]models.RoomSlotUsage{}
				}
				schedules[cell.Room][day] = append(schedules[cell.Room][day], models.RoomSlotUsage{
					TimeSlot: slot,
					Section:  section,
					Subject:  cell.Subject,
					Teacher:  cell.Teacher,
				})
			}
		}
	}

	var reports []models.RoomUtilization
	for _, roomNumber := range sortedKeys(roomsByNumber) {
		meta := roomsByNumber[roomNumber]
		report := models.RoomUtilization{
			RoomNumber: roomNumber,
			RoomType:   meta.RoomType,
			Capacity:   meta.Capacity,
			TotalSlots: totalWeeklySlots,
			Schedule:   map[string][]models.RoomSlotUsage{},
		}
		for day, usages := range schedules[roomNumber] {
			report.Schedule[day] = usages
			report.UsedSlots += len(usages)
		}
		report.UtilizationPercentage = float64(report.UsedSlots) / float64(totalWeeklySlots) * 100
		reports = append(reports, report)
	}

	return reports, nil
}

// RoomConflicts flags any (day, slot, room) combination claimed by more than
// one section in the stored grid. The engine's allocator prevents these for
// regular sessions; elective windows share rooms across sections on purpose,
// so those surface here for review.
func (s *ReportService) RoomConflicts(ctx context.Context, date, course string, semester int) ([]models.RoomConflict, error) {
	result, err := s.loadResult(ctx, date, course, semester)
	if err != nil {
		return nil, err
	}

	type slotKey struct {
		day  string
		slot string
		room string
	}
	claims := map[slotKey][]models.RoomSlotUsage{}

	for _, section := range sortedKeys(result.Grid) {
		byDay := result.Grid[section]
		for _, day := range sortedKeys(byDay) {
			for _, slot := range engine.TimeSlots() {
				cell, ok := byDay[day][slot]
				if !ok || cell.Room == "" {
					continue
				}
				key := slotKey{day: day, slot: slot, room: cell.Room}
				claims[key] = append(claims[key], models.RoomSlotUsage{
					TimeSlot: slot,
					Section:  section,
					Subject:  cell.Subject,
					Teacher:  cell.Teacher,
				})
			}
		}
	}

	var conflicts []models.RoomConflict
	for key, usages := range claims {
		if len(usages) < 2 {
			continue
		}
		conflicts = append(conflicts, models.RoomConflict{
			Day:         key.day,
			TimeSlot:    key.slot,
			Room:        key.room,
			Assignments: usages,
		})
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].Day != conflicts[j].Day {
			return conflicts[i].Day < conflicts[j].Day
		}
		if conflicts[i].TimeSlot != conflicts[j].TimeSlot {
			return conflicts[i].TimeSlot < conflicts[j].TimeSlot
		}
		return conflicts[i].Room < conflicts[j].Room
	})

	return conflicts, nil
}

func (s *ReportService) loadResult(ctx context.Context, date, course string, semester int) (*engine.Result, error) {
	tt, err := s.timetables.GetByDate(ctx, date, course, semester)
	if err != nil {
		return nil, err
	}

	var result engine.Result
	if err := json.Unmarshal(tt.Data, &result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored timetable is unreadable")
	}
	return &result, nil
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

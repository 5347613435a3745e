package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-timetable-api/internal/dto"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	"github.com/noah-isme/campus-timetable-api/pkg/jobs"
)

type stubGenerator struct {
	req dto.GenerateTimetableRequest
}

func (s *stubGenerator) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*models.Timetable, error) {
	s.req = req
	return &models.Timetable{
		StartDate: req.Date,
		EndDate:   req.Date,
		Course:    req.Course,
		Semester:  req.Semester,
	}, nil
}

type stubNotifier struct {
	notified *models.Timetable
}

func (s *stubNotifier) TimetableRegenerated(ctx context.Context, tt *models.Timetable) error {
	s.notified = tt
	return nil
}

func TestRegenerationHandleGeneratesAndNotifies(t *testing.T) {
	gen := &stubGenerator{}
	notifier := &stubNotifier{}
	svc := NewRegenerationService(gen, notifier, nil, RegenerationConfig{
		Course:   "BTech",
		Semester: 4,
	})

	err := svc.handle(context.Background(), jobs.Task{ID: "t-1", Kind: "regenerate"})
	require.NoError(t, err)

	assert.Equal(t, "BTech", gen.req.Course)
	assert.Equal(t, 4, gen.req.Semester)
	require.NotNil(t, notifier.notified)
	assert.Equal(t, "BTech", notifier.notified.Course)
}

func TestUntilNextSkipsToTomorrow(t *testing.T) {
	now := time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC)

	wait := untilNext(now, "10:30")
	assert.Equal(t, 24*time.Hour, wait)

	wait = untilNext(now, "10:45")
	assert.Equal(t, 15*time.Minute, wait)

	wait = untilNext(now, "00:00")
	assert.Equal(t, 13*time.Hour+30*time.Minute, wait)
}

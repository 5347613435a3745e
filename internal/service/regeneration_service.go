package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/dto"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	"github.com/noah-isme/campus-timetable-api/pkg/jobs"
)

type regenerationGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*models.Timetable, error)
}

type regenerationNotifier interface {
	TimetableRegenerated(ctx context.Context, tt *models.Timetable) error
}

// RegenerationConfig controls the scheduled regeneration loop.
type RegenerationConfig struct {
	Course   string
	Semester int
	// At is the local "HH:MM" wall time a daily run fires at.
	At string
}

// RegenerationService regenerates the timetable on a daily schedule through
// the background job queue, so API traffic never waits on a run.
type RegenerationService struct {
	generator regenerationGenerator
	notifier  regenerationNotifier
	queue     *jobs.Queue
	logger    *zap.Logger
	config    RegenerationConfig
	cancel    context.CancelFunc
}

// NewRegenerationService constructs a RegenerationService with its own
// single-worker queue. notifier may be nil.
func NewRegenerationService(generator regenerationGenerator, notifier regenerationNotifier, logger *zap.Logger, config RegenerationConfig) *RegenerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.At == "" {
		config.At = "00:00"
	}
	s := &RegenerationService{generator: generator, notifier: notifier, logger: logger, config: config}
	s.queue = jobs.NewQueue("timetable-regeneration", s.handle, jobs.Options{
		Workers: 1,
		Retries: 2,
		Backoff: time.Minute,
		Logger:  logger,
	})
	return s
}

// Start launches the queue and the daily trigger loop.
func (s *RegenerationService) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.queue.Start(ctx)

	go func() {
		for {
			wait := untilNext(time.Now(), s.config.At)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				if err := s.Trigger(); err != nil {
					s.logger.Warn("failed to enqueue regeneration", zap.Error(err))
				}
			}
		}
	}()
}

// Stop ends the trigger loop and drains the queue.
func (s *RegenerationService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.queue.Stop()
}

// Trigger enqueues an immediate regeneration run.
func (s *RegenerationService) Trigger() error {
	return s.queue.Submit(jobs.Task{
		ID:   uuid.NewString(),
		Kind: "regenerate",
	})
}

func (s *RegenerationService) handle(ctx context.Context, task jobs.Task) error {
	date := time.Now().Format("2006-01-02")
	tt, err := s.generator.Generate(ctx, dto.GenerateTimetableRequest{
		Date:     date,
		Course:   s.config.Course,
		Semester: s.config.Semester,
	})
	if err != nil {
		return fmt.Errorf("regenerate timetable for %s: %w", date, err)
	}

	if s.notifier != nil {
		if err := s.notifier.TimetableRegenerated(ctx, tt); err != nil {
			s.logger.Warn("regeneration notification failed", zap.Error(err))
		}
	}

	s.logger.Info("scheduled regeneration complete",
		zap.String("task_id", task.ID),
		zap.String("start_date", tt.StartDate),
		zap.String("end_date", tt.EndDate),
	)
	return nil
}

// untilNext returns the duration until the next occurrence of the "HH:MM"
// wall time, at least one minute away to avoid double firing.
func untilNext(now time.Time, at string) time.Duration {
	target, err := time.Parse("15:04", at)
	if err != nil {
		target = time.Time{}
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), target.Hour(), target.Minute(), 0, 0, now.Location())
	for !next.After(now.Add(time.Minute)) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

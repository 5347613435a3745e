package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

// RegeneratedChannel is the redis pub/sub channel announcing fresh runs.
const RegeneratedChannel = "timetable.regenerated"

type regeneratedEvent struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Course    string `json:"course"`
	Semester  int    `json:"semester"`
}

// NotifyService fans out regeneration announcements over redis pub/sub
// so other instances and UI listeners can drop stale state.
type NotifyService struct {
	redis *redis.Client
}

// NewNotifyService constructs a NotifyService. A nil client disables
// publishing.
func NewNotifyService(client *redis.Client) *NotifyService {
	return &NotifyService{redis: client}
}

// TimetableRegenerated publishes the identifying fields of a fresh run.
func (s *NotifyService) TimetableRegenerated(ctx context.Context, tt *models.Timetable) error {
	if s == nil || s.redis == nil {
		return nil
	}

	payload, err := json.Marshal(regeneratedEvent{
		StartDate: tt.StartDate,
		EndDate:   tt.EndDate,
		Course:    tt.Course,
		Semester:  tt.Semester,
	})
	if err != nil {
		return fmt.Errorf("encode regenerated event: %w", err)
	}

	if err := s.redis.Publish(ctx, RegeneratedChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish regenerated event: %w", err)
	}
	return nil
}

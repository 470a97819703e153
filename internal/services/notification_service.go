package services

import (
	"context"
	"encoding/json"
	"fmt"

	"frontdesk/internal/models"
)

// EventPublisher broadcasts lifecycle events to the supervisor room.
// Delivery is best-effort: callers log failures and move on, because the
// store is the durable source of truth and dashboards reconcile via the
// pending-requests pull endpoint.
type EventPublisher interface {
	PublishEscalation(ctx context.Context, request *models.HelpRequestDetail) error
	PublishAnswer(ctx context.Context, requestID int64, answerText string) error
	PublishTimeout(ctx context.Context, requestID int64) error
}

// NotificationService publishes lifecycle events to the room-scoped Redis
// topic. There is no persistence or replay: a subscriber connecting after an
// event was published never sees it.
type NotificationService struct {
	redis *RedisService
	room  string
}

// NewNotificationService creates a publisher for the given room
func NewNotificationService(redisService *RedisService, room string) *NotificationService {
	return &NotificationService{redis: redisService, room: room}
}

// Topic returns the pub/sub channel for a room
func Topic(room string) string {
	return "room:" + room + ":events"
}

// PublishEscalation broadcasts an escalate event carrying the full
// caller-joined request.
func (s *NotificationService) PublishEscalation(ctx context.Context, request *models.HelpRequestDetail) error {
	return s.publish(ctx, models.EventTypeEscalate, &models.EscalateEvent{
		Type:    models.EventTypeEscalate,
		Request: request,
	})
}

// PublishAnswer broadcasts a supervisor resolution
func (s *NotificationService) PublishAnswer(ctx context.Context, requestID int64, answerText string) error {
	return s.publish(ctx, models.EventTypeAnswer, &models.AnswerEvent{
		Type:       models.EventTypeAnswer,
		RequestID:  requestID,
		AnswerText: answerText,
	})
}

// PublishTimeout broadcasts a reaper expiration
func (s *NotificationService) PublishTimeout(ctx context.Context, requestID int64) error {
	return s.publish(ctx, models.EventTypeTimeout, &models.TimeoutEvent{
		Type:      models.EventTypeTimeout,
		RequestID: requestID,
	})
}

func (s *NotificationService) publish(ctx context.Context, eventType string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	if err := s.redis.Publish(ctx, Topic(s.room), data); err != nil {
		if m := GetMetrics(); m != nil {
			m.PublishFailures.WithLabelValues(eventType).Inc()
		}
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

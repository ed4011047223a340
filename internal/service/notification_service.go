package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/events"
	pktNats "ai-assistant-be/pkg/nats" // Renamed to avoid collision

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

// NotificationService turns bus events into real-time pushes. Notifications
// are ephemeral: a user not connected when the event fires simply misses it.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	// Subscribe to all events with a durable consumer
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// Strip "events." prefix from type if present (NATS subject includes stream name)
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	s.logger.Info("NotificationService", "Processing event", map[string]interface{}{"type": typeCode})

	switch typeCode {
	case "THREAD_TITLE_UPDATED":
		return s.handleThreadTitleUpdated(event)
	case "SYSTEM_BROADCAST":
		return s.handleSystemBroadcast(event)
	case "USER_LOGIN":
		// Login events only feed the audit log for now
		return nil
	default:
		s.logger.Debug("NotificationService", "No handler for event", map[string]interface{}{"type": typeCode})
		return nil
	}
}

func (s *NotificationService) handleThreadTitleUpdated(event events.Event) error {
	payload := event.Payload()

	userIDRaw, _ := payload["user_id"].(string)
	userID, err := uuid.Parse(userIDRaw)
	if err != nil {
		s.logger.Warn("NotificationService", "Title event without valid user_id", map[string]interface{}{"payload": payload})
		return nil
	}

	title, _ := payload["title"].(string)
	metaJSON, _ := json.Marshal(map[string]interface{}{
		"thread_id": payload["thread_id"],
		"title":     title,
	})

	notif := model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		TypeCode:  "THREAD_TITLE_UPDATED",
		Title:     "Conversation renamed",
		Message:   title,
		Metadata:  datatypes.JSON(metaJSON),
		CreatedAt: time.Now(),
	}

	if s.delivery != nil {
		s.delivery.Send(userID, notif)
	}
	return nil
}

func (s *NotificationService) handleSystemBroadcast(event events.Event) error {
	payload := event.Payload()

	title, _ := payload["title"].(string)
	message, _ := payload["message"].(string)

	notif := model.Notification{
		ID:        uuid.New(),
		TypeCode:  "SYSTEM_BROADCAST",
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}

	if s.delivery != nil {
		s.delivery.Broadcast(notif)
	}
	return nil
}

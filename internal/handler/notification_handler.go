package handler

import (
	"time"

	"ai-assistant-be/internal/pkg/logger"
	internalWS "ai-assistant-be/internal/websocket"
	"ai-assistant-be/pkg/events"
	pktNats "ai-assistant-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type NotificationHandler struct {
	publisher *pktNats.Publisher
	hub       *internalWS.Hub
	logger    logger.ILogger
}

func NewNotificationHandler(pub *pktNats.Publisher, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		publisher: pub,
		hub:       hub,
		logger:    log,
	}
}

// ServeWs upgrades the connection and registers it with the hub so the
// caller receives pushed notifications for the lifetime of the socket.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	identity, err := authenticateSocket(c)
	if err != nil {
		h.logger.Warn("NotificationHandler", "Rejected WS handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"user_id": identity.UserID})
			internalWS.ServeWs(h.hub, conn, identity.UserID)
			h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"user_id": identity.UserID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// Broadcast publishes a system-wide notification event. Every connected
// client receives it through the notification worker.
func (h *NotificationHandler) Broadcast(c *fiber.Ctx) error {
	type Request struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Title == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title and Message are required"})
	}

	evt := events.BaseEvent{
		Type: "SYSTEM_BROADCAST",
		Data: map[string]interface{}{
			"title":   req.Title,
			"message": req.Message,
		},
		OccurredAt: time.Now(),
	}

	if h.publisher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Event publisher not configured"})
	}
	if err := h.publisher.Publish(c.UserContext(), evt); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "Broadcast Queued"})
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notif := router.Group("/notifications")
	notif.Post("/broadcast", h.Broadcast)

	router.Get("/ws/notifications", h.ServeWs)
}

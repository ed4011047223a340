package handler

import (
	"context"
	"encoding/json"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/chat"
	"ai-assistant-be/pkg/chat/command"
	"ai-assistant-be/pkg/chat/orchestrator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ChatHandler owns the conversational websocket endpoint. Each connection
// gets its own orchestrator session; events on the socket are processed one
// at a time in arrival order.
type ChatHandler struct {
	orchestrator *orchestrator.Orchestrator
	logger       logger.ILogger
}

func NewChatHandler(orch *orchestrator.Orchestrator, log logger.ILogger) *ChatHandler {
	return &ChatHandler{
		orchestrator: orch,
		logger:       log,
	}
}

// ServeWs authenticates the caller and upgrades to the chat protocol.
// An optional "thread_id" query param reopens an archived conversation;
// without it the session starts a fresh thread.
func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	identity, err := authenticateSocket(c)
	if err != nil {
		h.logger.Warn("ChatHandler", "Rejected WS handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	threadID := uuid.New()
	resume := false
	if raw := c.Query("thread_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid thread_id"})
		}
		threadID = parsed
		resume = true
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.runSession(conn, identity, threadID, resume)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// runSession drives one connection from handshake to disconnect. The
// context is canceled when the socket closes so any in-flight turn is
// abandoned instead of writing to a dead connection.
func (h *ChatHandler) runSession(conn *websocket.Conn, identity chat.Identity, threadID uuid.UUID, resume bool) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessionID := uuid.New().String()
	emitter := &socketEmitter{conn: conn}

	h.logger.Info("ChatHandler", "Starting chat session", map[string]interface{}{
		"session_id": sessionID,
		"user_id":    identity.UserID,
		"thread_id":  threadID,
	})

	session, err := h.orchestrator.StartSession(ctx, sessionID, identity, threadID, emitter)
	if err != nil {
		h.logger.Error("ChatHandler", "Failed to start session", map[string]interface{}{"error": err.Error()})
		_ = emitter.EmitError("Could not start the chat session.")
		return
	}
	defer session.Close()

	if resume {
		if err := session.Resume(ctx); err != nil {
			h.logger.Warn("ChatHandler", "Resume failed", map[string]interface{}{"error": err.Error()})
		}
	}

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			h.logger.Info("ChatHandler", "Chat session ended", map[string]interface{}{"session_id": sessionID})
			return
		}

		if messageType == websocket.BinaryMessage {
			if err := session.HandleAudioChunk(data); err != nil {
				_ = emitter.EmitError("Audio capture is not active.")
			}
			continue
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var event dto.ChatEvent
		if err := json.Unmarshal(data, &event); err != nil {
			_ = emitter.EmitError("Malformed event.")
			continue
		}
		h.dispatch(ctx, session, event, emitter)
	}
}

func (h *ChatHandler) dispatch(ctx context.Context, session *orchestrator.Session, event dto.ChatEvent, emitter *socketEmitter) {
	switch event.Type {
	case dto.EventMessage:
		var payload dto.MessagePayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			_ = emitter.EmitError("Malformed message payload.")
			return
		}
		cmd, ok := command.Parse(payload.Command)
		if !ok {
			_ = emitter.EmitError("Unknown command.")
			return
		}
		if cmd == command.None {
			cmd = session.State().SelectedCommand
		}
		msg := chat.Message{
			Content:     payload.Content,
			Command:     cmd,
			Attachments: make([]chat.Attachment, 0, len(payload.Attachments)),
		}
		for _, att := range payload.Attachments {
			msg.Attachments = append(msg.Attachments, chat.Attachment{
				Name: att.Name,
				Mime: att.Mime,
				Size: att.Size,
				Data: att.Data,
			})
		}
		if err := session.HandleMessage(ctx, msg); err != nil {
			h.logger.Error("ChatHandler", "Turn failed", map[string]interface{}{"error": err.Error()})
		}

	case dto.EventCommand:
		var payload dto.CommandPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			_ = emitter.EmitError("Malformed command payload.")
			return
		}
		if err := session.SetCommand(payload.Command); err != nil {
			_ = emitter.EmitError("Unknown command.")
		}

	case dto.EventResume:
		if err := session.Resume(ctx); err != nil {
			h.logger.Warn("ChatHandler", "Resume failed", map[string]interface{}{"error": err.Error()})
		}

	case dto.EventToolDiscovery:
		var payload dto.ToolDiscoveryPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			_ = emitter.EmitError("Malformed tool discovery payload.")
			return
		}
		if err := session.HandleToolDiscovery(ctx, payload.Provider); err != nil {
			h.logger.Warn("ChatHandler", "Tool discovery failed", map[string]interface{}{
				"provider": payload.Provider,
				"error":    err.Error(),
			})
		}

	case dto.EventAudioStart:
		if err := session.HandleAudioStart(); err != nil {
			_ = emitter.EmitError("A recording is already in progress.")
		}

	case dto.EventAudioEnd:
		if err := session.HandleAudioEnd(ctx); err != nil {
			h.logger.Warn("ChatHandler", "Audio turn failed", map[string]interface{}{"error": err.Error()})
		}

	default:
		_ = emitter.EmitError("Unknown event type.")
	}
}

// socketEmitter writes orchestrator output as ChatEvent frames. All calls
// come from the connection's event loop, so writes never interleave.
type socketEmitter struct {
	conn *websocket.Conn
}

func (e *socketEmitter) writeEvent(eventType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return e.conn.WriteJSON(dto.ChatEvent{Type: eventType, Payload: raw})
}

func (e *socketEmitter) EmitMessage(role, content string) error {
	return e.writeEvent(dto.EventAssistantMessage, dto.OutboundMessagePayload{Role: role, Content: content})
}

func (e *socketEmitter) EmitError(message string) error {
	return e.writeEvent(dto.EventError, dto.OutboundErrorPayload{Message: message})
}

func (e *socketEmitter) EmitCommands(commands []command.Descriptor) error {
	return e.writeEvent(dto.EventCommandList, commands)
}

func (e *socketEmitter) EmitStarters(starters []command.Starter) error {
	return e.writeEvent(dto.EventStarterList, starters)
}

// RegisterRoutes registers the chat websocket route.
func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/chat", h.ServeWs)
}

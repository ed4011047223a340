// FILE: internal/dto/chat_dto.go
package dto

import "encoding/json"

// Websocket event envelope. Every text frame on the chat socket carries one
// of these; binary frames are raw audio chunks.
type ChatEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound event types
const (
	EventMessage       = "message"
	EventCommand       = "command"
	EventResume        = "resume"
	EventToolDiscovery = "tool_discovery"
	EventAudioStart    = "audio_start"
	EventAudioEnd      = "audio_end"
)

// Outbound event types
const (
	EventAssistantMessage = "message"
	EventError            = "error"
	EventCommandList      = "commands"
	EventStarterList      = "starters"
)

type AttachmentPayload struct {
	Name string `json:"name"`
	Mime string `json:"mime"`
	Size int64  `json:"size"`
	Data []byte `json:"data"` // base64 over the wire
}

type MessagePayload struct {
	Content     string              `json:"content"`
	Command     string              `json:"command,omitempty"`
	Attachments []AttachmentPayload `json:"attachments,omitempty"`
}

type CommandPayload struct {
	Command string `json:"command"`
}

type ToolDiscoveryPayload struct {
	Provider string `json:"provider"`
}

type OutboundMessagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OutboundErrorPayload struct {
	Message string `json:"message"`
}

package chat

import (
	"encoding/json"
	"time"

	"ai-assistant-be/pkg/chat/command"

	"github.com/google/uuid"
)

// Roles used in exchanges and persisted steps.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Identity is the authenticated user bound to a chat session. It is resolved
// once during the websocket handshake and never changes afterwards.
type Identity struct {
	UserID   uuid.UUID
	Email    string
	FullName string
}

// Attachment carries an inbound file from the UI, bytes included.
type Attachment struct {
	Name string
	Mime string
	Size int64
	Data []byte
}

// AttachmentRef is the byte-less reference kept on an exchange after the
// attachment has been processed.
type AttachmentRef struct {
	Name string `json:"name"`
	Mime string `json:"mime"`
	Size int64  `json:"size"`
}

// Message is one incoming user message as the router sees it: text, an
// optional selected command and any attached files.
type Message struct {
	Content     string
	Command     command.Command
	Attachments []Attachment
}

// Exchange is one turn of conversation. Immutable once recorded; appended to
// session history in arrival order and never reordered or deleted.
type Exchange struct {
	Id          uuid.UUID
	Role        string
	Content     string
	Command     string
	Attachments []AttachmentRef
	CreatedAt   time.Time
}

// NewExchange builds an exchange stamped with the current time.
func NewExchange(role, content string) *Exchange {
	return &Exchange{
		Id:        uuid.New(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// ToolDescriptor describes one remote tool discovered from a provider.
// Owned exclusively by the per-session tool cache.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	InputSchema json.RawMessage `json:"parameters,omitempty"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification is an ephemeral real-time push payload. It is delivered over
// the websocket hub and never persisted.
type Notification struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	TypeCode  string         `json:"type_code"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

package store

import (
	"ai-assistant-be/pkg/chat"
	"ai-assistant-be/pkg/chat/audio"
	"ai-assistant-be/pkg/chat/command"
	"ai-assistant-be/pkg/chat/toolcache"

	"github.com/google/uuid"
)

// Session lifecycle states. A session may only serve messages once it has
// reached StateReady.
const (
	StateInit  = "INIT"
	StateReady = "READY"
)

// SessionState is the active chat session kept in memory for the lifetime
// of one websocket connection.
type SessionState struct {
	ID       string
	User     chat.Identity
	ThreadID uuid.UUID
	State    string

	// Command the UI currently has selected, if any
	SelectedCommand command.Command

	// Conversation so far, append-only in arrival order
	History []*chat.Exchange

	// Session-scoped tool discoveries
	Tools *toolcache.Cache

	// Microphone capture in progress, if any
	Audio *audio.IngestBuffer

	// Set once the thread has received its generated title
	Renamed bool
}

func NewSessionState(id string, user chat.Identity, threadID uuid.UUID) *SessionState {
	return &SessionState{
		ID:       id,
		User:     user,
		ThreadID: threadID,
		State:    StateInit,
		Tools:    toolcache.New(),
		Audio:    audio.NewIngestBuffer(),
	}
}

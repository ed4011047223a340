package chat

import (
	"context"

	"ai-assistant-be/pkg/chat/command"

	"github.com/google/uuid"
)

// DocumentSummarizer turns an uploaded file or raw text into summary text.
// Typically implemented by the document processor.
type DocumentSummarizer interface {
	ProcessDocument(ctx context.Context, name string, data []byte, mime string) (string, error)
	SummarizeText(ctx context.Context, content string) (string, error)
}

// Transcriber converts one finalized audio payload into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// ToolDiscoverer lists the tools a remote provider currently exposes.
type ToolDiscoverer interface {
	ListTools(ctx context.Context, provider string) ([]ToolDescriptor, error)
}

// ThreadStore is the persistence contract the orchestrator writes through.
// The storage engine behind it is out of the orchestrator's sight.
type ThreadStore interface {
	EnsureThread(ctx context.Context, userID, threadID uuid.UUID, title string) error
	AppendExchange(ctx context.Context, threadID uuid.UUID, exchange *Exchange) error
	LoadThread(ctx context.Context, userID, threadID uuid.UUID) ([]*Exchange, error)
}

// Emitter pushes UI-visible output for one chat connection.
// Typically implemented by the websocket chat handler.
type Emitter interface {
	EmitMessage(role, content string) error
	EmitError(message string) error
	EmitCommands(commands []command.Descriptor) error
	EmitStarters(starters []command.Starter) error
}

// TitlePublisher requests background title generation for a thread.
type TitlePublisher interface {
	PublishTitleRequest(threadID uuid.UUID, query string) error
}

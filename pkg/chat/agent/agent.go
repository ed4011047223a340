package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/pkg/chat"
	"ai-assistant-be/pkg/llm"

	"github.com/google/uuid"
)

// Role selects which instruction set an execution context runs under.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleQA        Role = "qa"
	RoleSearch    Role = "search"
)

// Instruction returns the system prompt for the role.
func (r Role) Instruction() string {
	switch r {
	case RoleQA:
		return constant.QAAgentInstruction
	case RoleSearch:
		return constant.SearchAgentInstruction
	default:
		return constant.DefaultAgentInstruction
	}
}

// ExecutionContext is the model-facing state of one agent: its role and the
// message history it has accumulated so far. Histories only grow, except for
// a wholesale replace during archive rebuild.
type ExecutionContext struct {
	UserID  uuid.UUID
	Role    Role
	History []llm.Message
}

type contextKey struct {
	UserID uuid.UUID
	Role   Role
}

// SessionManager creates agent execution contexts lazily and keeps them for
// the lifetime of a chat session. Each (user, role) pair owns at most one
// context.
type SessionManager struct {
	mu       sync.Mutex
	contexts map[contextKey]*ExecutionContext
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		contexts: make(map[contextKey]*ExecutionContext),
	}
}

// GetOrCreate returns the execution context for (user, role), creating an
// empty one on first use.
func (m *SessionManager) GetOrCreate(userID uuid.UUID, role Role) *ExecutionContext {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := contextKey{UserID: userID, Role: role}
	if execCtx, ok := m.contexts[key]; ok {
		return execCtx
	}

	execCtx := &ExecutionContext{
		UserID: userID,
		Role:   role,
	}
	m.contexts[key] = execCtx
	return execCtx
}

// RebuildFromArchive replaces the context's history wholesale with the
// archived exchanges of a thread. Used when a session resumes an existing
// conversation.
func (m *SessionManager) RebuildFromArchive(userID uuid.UUID, role Role, exchanges []*chat.Exchange) *ExecutionContext {
	history := make([]llm.Message, 0, len(exchanges))
	for _, ex := range exchanges {
		switch ex.Role {
		case chat.RoleUser, chat.RoleAssistant:
			history = append(history, llm.Message{
				Role:    ex.Role,
				Content: ex.Content,
			})
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := contextKey{UserID: userID, Role: role}
	execCtx, ok := m.contexts[key]
	if !ok {
		execCtx = &ExecutionContext{UserID: userID, Role: role}
		m.contexts[key] = execCtx
	}
	execCtx.History = history
	return execCtx
}

// Release drops every context belonging to the user.
func (m *SessionManager) Release(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.contexts {
		if key.UserID == userID {
			delete(m.contexts, key)
		}
	}
}

// Runner drives one agent turn against the configured model.
type Runner struct {
	provider llm.LLMProvider
}

func NewRunner(provider llm.LLMProvider) *Runner {
	return &Runner{provider: provider}
}

// Run sends the context history plus the new input to the model and records
// both the input and the reply on the context. Tools, when present, are
// surfaced to the model through the system prompt.
func (r *Runner) Run(ctx context.Context, execCtx *ExecutionContext, input string, tools []chat.ToolDescriptor) (string, error) {
	instruction := execCtx.Role.Instruction()
	if len(tools) > 0 {
		instruction = instruction + "\n\n" + renderToolAnnex(tools)
	}

	messages := make([]llm.Message, 0, len(execCtx.History)+2)
	messages = append(messages, llm.Message{Role: "system", Content: instruction})
	messages = append(messages, execCtx.History...)
	messages = append(messages, llm.Message{Role: "user", Content: input})

	reply, err := r.provider.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("agent %s run: %w", execCtx.Role, err)
	}

	execCtx.History = append(execCtx.History,
		llm.Message{Role: "user", Content: input},
		llm.Message{Role: "assistant", Content: reply},
	)
	return reply, nil
}

func renderToolAnnex(tools []chat.ToolDescriptor) string {
	var b strings.Builder
	b.WriteString("Available tools:\n")
	for _, tool := range tools {
		b.WriteString("- ")
		b.WriteString(tool.Name)
		if tool.Description != "" {
			b.WriteString(": ")
			b.WriteString(tool.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

package agent

import (
	"context"
	"errors"
	"testing"

	"ai-assistant-be/pkg/chat"
	"ai-assistant-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider is a canned LLM backend for tests.
type stubProvider struct {
	reply    string
	err      error
	lastCall []llm.Message
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.lastCall = history
	return p.reply, p.err
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func (p *stubProvider) GenerateWithFile(ctx context.Context, prompt string, data []byte, mime string, options ...llm.Option) (string, error) {
	return p.reply, p.err
}

func TestGetOrCreateIsLazyAndStable(t *testing.T) {
	m := NewSessionManager()
	userID := uuid.New()

	first := m.GetOrCreate(userID, RoleAssistant)
	second := m.GetOrCreate(userID, RoleAssistant)
	assert.Same(t, first, second)

	qa := m.GetOrCreate(userID, RoleQA)
	assert.NotSame(t, first, qa)
	assert.Equal(t, RoleQA, qa.Role)
}

func TestContextsAreScopedPerUser(t *testing.T) {
	m := NewSessionManager()
	a := m.GetOrCreate(uuid.New(), RoleAssistant)
	b := m.GetOrCreate(uuid.New(), RoleAssistant)
	assert.NotSame(t, a, b)
}

func TestRebuildFromArchive(t *testing.T) {
	m := NewSessionManager()
	userID := uuid.New()

	execCtx := m.GetOrCreate(userID, RoleAssistant)
	execCtx.History = []llm.Message{{Role: "user", Content: "stale"}}

	exchanges := []*chat.Exchange{
		{Role: chat.RoleUser, Content: "hello"},
		{Role: chat.RoleAssistant, Content: "hi there"},
		{Role: chat.RoleTool, Content: "ignored"},
		{Role: chat.RoleUser, Content: "follow up"},
	}

	rebuilt := m.RebuildFromArchive(userID, RoleAssistant, exchanges)
	assert.Same(t, execCtx, rebuilt)
	require.Len(t, rebuilt.History, 3)
	assert.Equal(t, "hello", rebuilt.History[0].Content)
	assert.Equal(t, "hi there", rebuilt.History[1].Content)
	assert.Equal(t, "follow up", rebuilt.History[2].Content)
}

func TestRebuildCreatesMissingContext(t *testing.T) {
	m := NewSessionManager()
	userID := uuid.New()

	rebuilt := m.RebuildFromArchive(userID, RoleSearch, []*chat.Exchange{
		{Role: chat.RoleUser, Content: "q"},
	})
	assert.Same(t, rebuilt, m.GetOrCreate(userID, RoleSearch))
	assert.Len(t, rebuilt.History, 1)
}

func TestReleaseDropsAllRolesForUser(t *testing.T) {
	m := NewSessionManager()
	userID := uuid.New()
	otherID := uuid.New()

	stale := m.GetOrCreate(userID, RoleAssistant)
	m.GetOrCreate(userID, RoleQA)
	kept := m.GetOrCreate(otherID, RoleAssistant)

	m.Release(userID)

	assert.NotSame(t, stale, m.GetOrCreate(userID, RoleAssistant))
	assert.Same(t, kept, m.GetOrCreate(otherID, RoleAssistant))
}

func TestRunnerBuildsPromptAndRecordsHistory(t *testing.T) {
	provider := &stubProvider{reply: "the answer"}
	runner := NewRunner(provider)

	execCtx := &ExecutionContext{
		UserID: uuid.New(),
		Role:   RoleAssistant,
		History: []llm.Message{
			{Role: "user", Content: "earlier question"},
			{Role: "assistant", Content: "earlier answer"},
		},
	}

	reply, err := runner.Run(context.Background(), execCtx, "new question", nil)
	require.NoError(t, err)
	assert.Equal(t, "the answer", reply)

	// system + 2 history + new input
	require.Len(t, provider.lastCall, 4)
	assert.Equal(t, "system", provider.lastCall[0].Role)
	assert.Equal(t, "new question", provider.lastCall[3].Content)

	require.Len(t, execCtx.History, 4)
	assert.Equal(t, "new question", execCtx.History[2].Content)
	assert.Equal(t, "the answer", execCtx.History[3].Content)
}

func TestRunnerInjectsToolAnnex(t *testing.T) {
	provider := &stubProvider{reply: "ok"}
	runner := NewRunner(provider)

	execCtx := &ExecutionContext{UserID: uuid.New(), Role: RoleSearch}
	tools := []chat.ToolDescriptor{
		{Name: "tavily-search", Description: "Search the web"},
	}

	_, err := runner.Run(context.Background(), execCtx, "find it", tools)
	require.NoError(t, err)
	assert.Contains(t, provider.lastCall[0].Content, "tavily-search: Search the web")
}

func TestRunnerErrorLeavesHistoryUntouched(t *testing.T) {
	provider := &stubProvider{err: errors.New("model unavailable")}
	runner := NewRunner(provider)

	execCtx := &ExecutionContext{UserID: uuid.New(), Role: RoleAssistant}
	_, err := runner.Run(context.Background(), execCtx, "question", nil)
	require.Error(t, err)
	assert.Empty(t, execCtx.History)
}

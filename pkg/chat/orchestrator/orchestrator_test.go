package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/chat"
	"ai-assistant-be/pkg/chat/agent"
	"ai-assistant-be/pkg/chat/command"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes -----------------------------------------------------------------

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (p *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.calls++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.reply, p.err
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, nil, options...)
}

func (p *fakeProvider) GenerateWithFile(ctx context.Context, prompt string, data []byte, mime string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, nil, options...)
}

type fakeDocuments struct {
	processed map[string]string
	summary   string
	err       error
}

func (d *fakeDocuments) ProcessDocument(ctx context.Context, name string, data []byte, mime string) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	if content, ok := d.processed[name]; ok {
		return content, nil
	}
	return "", fmt.Errorf("unsupported document type: %s (%s)", name, mime)
}

func (d *fakeDocuments) SummarizeText(ctx context.Context, content string) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	return d.summary, nil
}

type fakeTranscriber struct {
	transcript string
	err        error
	gotBytes   int
}

func (t *fakeTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	t.gotBytes = len(audio)
	return t.transcript, t.err
}

type fakeDiscoverer struct {
	tools []chat.ToolDescriptor
	err   error
}

func (d *fakeDiscoverer) ListTools(ctx context.Context, provider string) ([]chat.ToolDescriptor, error) {
	return d.tools, d.err
}

type fakeThreadStore struct {
	ensured   bool
	appended  []*chat.Exchange
	archived  []*chat.Exchange
	ensureErr error
	appendErr error
	loadErr   error
}

func (s *fakeThreadStore) EnsureThread(ctx context.Context, userID, threadID uuid.UUID, title string) error {
	s.ensured = true
	return s.ensureErr
}

func (s *fakeThreadStore) AppendExchange(ctx context.Context, threadID uuid.UUID, exchange *chat.Exchange) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, exchange)
	return nil
}

func (s *fakeThreadStore) LoadThread(ctx context.Context, userID, threadID uuid.UUID) ([]*chat.Exchange, error) {
	return s.archived, s.loadErr
}

type fakeTitles struct {
	requests []string
	err      error
}

func (t *fakeTitles) PublishTitleRequest(threadID uuid.UUID, query string) error {
	if t.err != nil {
		return t.err
	}
	t.requests = append(t.requests, query)
	return nil
}

type emitted struct {
	kind    string // "message", "error", "commands", "starters"
	role    string
	content string
}

type fakeEmitter struct {
	events []emitted
}

func (e *fakeEmitter) EmitMessage(role, content string) error {
	e.events = append(e.events, emitted{kind: "message", role: role, content: content})
	return nil
}

func (e *fakeEmitter) EmitError(message string) error {
	e.events = append(e.events, emitted{kind: "error", content: message})
	return nil
}

func (e *fakeEmitter) EmitCommands(commands []command.Descriptor) error {
	e.events = append(e.events, emitted{kind: "commands"})
	return nil
}

func (e *fakeEmitter) EmitStarters(starters []command.Starter) error {
	e.events = append(e.events, emitted{kind: "starters"})
	return nil
}

func (e *fakeEmitter) errors() []string {
	var out []string
	for _, ev := range e.events {
		if ev.kind == "error" {
			out = append(out, ev.content)
		}
	}
	return out
}

func (e *fakeEmitter) lastMessage() (emitted, bool) {
	for i := len(e.events) - 1; i >= 0; i-- {
		if e.events[i].kind == "message" {
			return e.events[i], true
		}
	}
	return emitted{}, false
}

// --- harness ---------------------------------------------------------------

type harness struct {
	orch        *Orchestrator
	provider    *fakeProvider
	documents   *fakeDocuments
	transcriber *fakeTranscriber
	discoverer  *fakeDiscoverer
	threads     *fakeThreadStore
	titles      *fakeTitles
	sessions    *memory.SessionRepository
}

func newHarness() *harness {
	h := &harness{
		provider:    &fakeProvider{reply: "model reply"},
		documents:   &fakeDocuments{processed: map[string]string{}, summary: "a summary"},
		transcriber: &fakeTranscriber{transcript: "spoken words"},
		discoverer:  &fakeDiscoverer{},
		threads:     &fakeThreadStore{},
		titles:      &fakeTitles{},
		sessions:    memory.NewSessionRepository(),
	}
	h.orch = NewOrchestrator(
		agent.NewRunner(h.provider),
		h.documents,
		h.transcriber,
		h.discoverer,
		h.threads,
		h.titles,
		h.sessions,
		nopLogger{},
	)
	return h
}

func (h *harness) start(t *testing.T) (*Session, *fakeEmitter) {
	t.Helper()
	emitter := &fakeEmitter{}
	session, err := h.orch.StartSession(context.Background(), uuid.NewString(), chat.Identity{UserID: uuid.New()}, uuid.New(), emitter)
	require.NoError(t, err)
	return session, emitter
}

// --- tests -----------------------------------------------------------------

func TestStartSessionPublishesTilesAndGoesReady(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	assert.True(t, h.threads.ensured)
	assert.Equal(t, store.StateReady, session.State().State)

	require.Len(t, emitter.events, 2)
	assert.Equal(t, "commands", emitter.events[0].kind)
	assert.Equal(t, "starters", emitter.events[1].kind)

	_, found := h.sessions.Get(session.State().ID)
	assert.True(t, found)
}

func TestStartSessionFailsWhenThreadCannotBeEnsured(t *testing.T) {
	h := newHarness()
	h.threads.ensureErr = errors.New("db down")

	_, err := h.orch.StartSession(context.Background(), uuid.NewString(), chat.Identity{UserID: uuid.New()}, uuid.New(), &fakeEmitter{})
	assert.Error(t, err)
}

func TestChatTurnRepliesAndArchivesBothSides(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	err := session.HandleMessage(context.Background(), chat.Message{Content: "hello"})
	require.NoError(t, err)

	msg, ok := emitter.lastMessage()
	require.True(t, ok)
	assert.Equal(t, chat.RoleAssistant, msg.role)
	assert.Equal(t, "model reply", msg.content)

	require.Len(t, h.threads.appended, 2)
	assert.Equal(t, chat.RoleUser, h.threads.appended[0].Role)
	assert.Equal(t, chat.RoleAssistant, h.threads.appended[1].Role)
	assert.Len(t, session.State().History, 2)
}

func TestFirstMessageRequestsTitleExactlyOnce(t *testing.T) {
	h := newHarness()
	session, _ := h.start(t)

	require.NoError(t, session.HandleMessage(context.Background(), chat.Message{Content: "first"}))
	require.NoError(t, session.HandleMessage(context.Background(), chat.Message{Content: "second"}))

	require.Len(t, h.titles.requests, 1)
	assert.Equal(t, "first", h.titles.requests[0])
}

func TestTitleRequestRetriesAfterPublishFailure(t *testing.T) {
	h := newHarness()
	session, _ := h.start(t)

	h.titles.err = errors.New("queue full")
	require.NoError(t, session.HandleMessage(context.Background(), chat.Message{Content: "first"}))
	assert.False(t, session.State().Renamed)

	h.titles.err = nil
	require.NoError(t, session.HandleMessage(context.Background(), chat.Message{Content: "second"}))
	require.Len(t, h.titles.requests, 1)
	assert.Equal(t, "second", h.titles.requests[0])
}

func TestModelFailureDegradesToErrorEvent(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	h.provider.err = errors.New("model unavailable")
	err := session.HandleMessage(context.Background(), chat.Message{Content: "hello"})
	require.NoError(t, err)

	errs := emitter.errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Something went wrong")

	// The user side of the turn is still archived; only the reply is missing.
	require.Len(t, h.threads.appended, 1)
	assert.Equal(t, chat.RoleUser, h.threads.appended[0].Role)

	// The session still serves the next turn.
	h.provider.err = nil
	require.NoError(t, session.HandleMessage(context.Background(), chat.Message{Content: "again"}))
	msg, ok := emitter.lastMessage()
	require.True(t, ok)
	assert.Equal(t, "model reply", msg.content)
}

func TestCanceledTurnIsDiscardedSilently(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := session.HandleMessage(ctx, chat.Message{Content: "hello"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, emitter.errors())

	var messages int
	for _, ev := range emitter.events {
		if ev.kind == "message" {
			messages++
		}
	}
	assert.Zero(t, messages)
}

func TestArchiveFailureWarnsButTurnContinues(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	h.threads.appendErr = errors.New("db down")
	err := session.HandleMessage(context.Background(), chat.Message{Content: "hello"})
	require.NoError(t, err)

	msg, ok := emitter.lastMessage()
	require.True(t, ok)
	assert.Equal(t, "model reply", msg.content)

	errs := emitter.errors()
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "could not be saved")

	// In-memory history still holds both sides of the turn.
	assert.Len(t, session.State().History, 2)
}

func TestSearchWithoutToolsAnnouncesDegradedMode(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	err := session.HandleMessage(context.Background(), chat.Message{Content: "latest news", Command: command.Search})
	require.NoError(t, err)

	var notices []string
	for _, ev := range emitter.events {
		if ev.kind == "message" {
			notices = append(notices, ev.content)
		}
	}
	require.Len(t, notices, 2)
	assert.Contains(t, notices[0], "Search tools are unavailable")
	assert.Equal(t, "model reply", notices[1])
}

func TestSearchUsesDiscoveredTools(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	h.discoverer.tools = []chat.ToolDescriptor{{Name: "tavily-search", Category: "tavily"}}
	require.NoError(t, session.HandleToolDiscovery(context.Background(), "tavily"))

	err := session.HandleMessage(context.Background(), chat.Message{Content: "latest news", Command: command.Search})
	require.NoError(t, err)

	for _, ev := range emitter.events {
		if ev.kind == "message" {
			assert.NotContains(t, ev.content, "Search tools are unavailable")
		}
	}
}

func TestToolDiscoveryFailureKeepsPreviousCache(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	h.discoverer.tools = []chat.ToolDescriptor{{Name: "tavily-search"}}
	require.NoError(t, session.HandleToolDiscovery(context.Background(), "tavily"))

	h.discoverer.err = errors.New("endpoint unreachable")
	require.NoError(t, session.HandleToolDiscovery(context.Background(), "tavily"))

	errs := emitter.errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "tavily")

	assert.Len(t, session.State().Tools.Lookup("tavily"), 1)
}

func TestDocumentQASkipsUnreadableAttachments(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	h.documents.processed["good.txt"] = "good content"
	err := session.HandleMessage(context.Background(), chat.Message{
		Content: "what do these say",
		Attachments: []chat.Attachment{
			{Name: "bad.exe", Mime: "application/x-msdownload"},
			{Name: "good.txt", Mime: "text/plain", Data: []byte("good content")},
		},
	})
	require.NoError(t, err)

	errs := emitter.errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Skipped bad.exe")

	msg, ok := emitter.lastMessage()
	require.True(t, ok)
	assert.Equal(t, "model reply", msg.content)
}

func TestDocumentQAAllAttachmentsUnreadable(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	err := session.HandleMessage(context.Background(), chat.Message{
		Content:     "analyze",
		Attachments: []chat.Attachment{{Name: "bad.exe", Mime: "application/x-msdownload"}},
	})
	require.NoError(t, err)

	errs := emitter.errors()
	require.Len(t, errs, 2) // skip notice, then the failed turn
	assert.Contains(t, errs[0], "Skipped bad.exe")
}

func TestSummaryCommandWithAttachmentReturnsExtractionDirectly(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	h.documents.processed["paper.pdf"] = "extracted summary"
	err := session.HandleMessage(context.Background(), chat.Message{
		Command:     command.Summary,
		Attachments: []chat.Attachment{{Name: "paper.pdf", Mime: "application/pdf"}},
	})
	require.NoError(t, err)

	msg, ok := emitter.lastMessage()
	require.True(t, ok)
	assert.Contains(t, msg.content, "extracted summary")
	assert.Zero(t, h.provider.calls, "summary of an upload needs no second model pass")
}

func TestSummaryCommandOnRawText(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	err := session.HandleMessage(context.Background(), chat.Message{
		Content: "a long pasted text",
		Command: command.Summary,
	})
	require.NoError(t, err)

	msg, ok := emitter.lastMessage()
	require.True(t, ok)
	assert.Equal(t, "a summary", msg.content)
}

func TestAudioRoundTrip(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	require.NoError(t, session.HandleAudioStart())
	require.NoError(t, session.HandleAudioChunk([]byte("chunk-a")))
	require.NoError(t, session.HandleAudioChunk([]byte("chunk-b")))
	require.NoError(t, session.HandleAudioEnd(context.Background()))

	assert.Equal(t, len("chunk-achunk-b"), h.transcriber.gotBytes)

	// Transcript is echoed as the user message, then answered.
	var roles []string
	for _, ev := range emitter.events {
		if ev.kind == "message" {
			roles = append(roles, ev.role)
		}
	}
	require.Len(t, roles, 2)
	assert.Equal(t, chat.RoleUser, roles[0])
	assert.Equal(t, chat.RoleAssistant, roles[1])
}

func TestAudioEndWithoutStart(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	require.NoError(t, session.HandleAudioEnd(context.Background()))
	errs := emitter.errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "No recording")
}

func TestAudioDoubleStart(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	require.NoError(t, session.HandleAudioStart())
	require.NoError(t, session.HandleAudioStart())
	errs := emitter.errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "already in progress")
}

func TestAudioEndUsesSelectedCommand(t *testing.T) {
	h := newHarness()
	session, _ := h.start(t)

	require.NoError(t, session.SetCommand("Summary"))
	require.NoError(t, session.HandleAudioStart())
	require.NoError(t, session.HandleAudioChunk([]byte("audio")))
	require.NoError(t, session.HandleAudioEnd(context.Background()))

	// The transcript went down the summary path, not the chat path.
	assert.Zero(t, h.provider.calls)
	require.NotEmpty(t, h.threads.appended)
	assert.Equal(t, "Summary", h.threads.appended[0].Command)
}

func TestResumeRebuildsHistoryWholesale(t *testing.T) {
	h := newHarness()
	session, _ := h.start(t)

	h.threads.archived = []*chat.Exchange{
		{Id: uuid.New(), Role: chat.RoleUser, Content: "old question"},
		{Id: uuid.New(), Role: chat.RoleAssistant, Content: "old answer"},
	}

	require.NoError(t, session.Resume(context.Background()))
	assert.Len(t, session.State().History, 2)
	assert.True(t, session.State().Renamed, "a resumed thread keeps its title")

	// The next turn must not trigger a title request.
	require.NoError(t, session.HandleMessage(context.Background(), chat.Message{Content: "new question"}))
	assert.Empty(t, h.titles.requests)
}

func TestResumeEmptyThread(t *testing.T) {
	h := newHarness()
	session, _ := h.start(t)

	require.NoError(t, session.Resume(context.Background()))
	assert.Empty(t, session.State().History)
	assert.False(t, session.State().Renamed)
}

func TestResumeFailureReportsAndKeepsSessionAlive(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	h.threads.loadErr = errors.New("db down")
	require.NoError(t, session.Resume(context.Background()))

	errs := emitter.errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Could not restore")

	h.threads.loadErr = nil
	require.NoError(t, session.HandleMessage(context.Background(), chat.Message{Content: "still works"}))
}

func TestSetCommandRejectsUnknown(t *testing.T) {
	h := newHarness()
	session, emitter := h.start(t)

	require.NoError(t, session.SetCommand("Teleport"))
	errs := emitter.errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Teleport")
	assert.Equal(t, command.None, session.State().SelectedCommand)
}

func TestCloseRemovesSessionRecord(t *testing.T) {
	h := newHarness()
	session, _ := h.start(t)

	id := session.State().ID
	session.Close()

	_, found := h.sessions.Get(id)
	assert.False(t, found)
}

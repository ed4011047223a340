package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/chat"
	"ai-assistant-be/pkg/chat/agent"
	"ai-assistant-be/pkg/chat/command"
	"ai-assistant-be/pkg/chat/router"
	"ai-assistant-be/pkg/store"

	"github.com/google/uuid"
)

// Orchestrator wires every chat session to the shared collaborators: the
// model runner, document processor, transcriber, tool discovery client and
// the archive. One instance serves the whole process; per-connection state
// lives on Session.
type Orchestrator struct {
	runner      *agent.Runner
	documents   chat.DocumentSummarizer
	transcriber chat.Transcriber
	discoverer  chat.ToolDiscoverer
	threads     chat.ThreadStore
	titles      chat.TitlePublisher
	sessionRepo *memory.SessionRepository
	logger      logger.ILogger
}

func NewOrchestrator(
	runner *agent.Runner,
	documents chat.DocumentSummarizer,
	transcriber chat.Transcriber,
	discoverer chat.ToolDiscoverer,
	threads chat.ThreadStore,
	titles chat.TitlePublisher,
	sessionRepo *memory.SessionRepository,
	log logger.ILogger,
) *Orchestrator {
	return &Orchestrator{
		runner:      runner,
		documents:   documents,
		transcriber: transcriber,
		discoverer:  discoverer,
		threads:     threads,
		titles:      titles,
		sessionRepo: sessionRepo,
		logger:      log,
	}
}

// Session is one live chat connection. All Handle* methods are invoked
// sequentially by the connection's event loop; a session never processes two
// events at once, so the state it owns needs no locking.
type Session struct {
	orch    *Orchestrator
	state   *store.SessionState
	agents  *agent.SessionManager
	emitter chat.Emitter
}

// StartSession brings a new session from INIT to READY: the backing thread
// is ensured in the archive and the command and starter tiles are pushed to
// the UI. A session that fails here never serves messages.
func (o *Orchestrator) StartSession(ctx context.Context, sessionID string, user chat.Identity, threadID uuid.UUID, emitter chat.Emitter) (*Session, error) {
	state := store.NewSessionState(sessionID, user, threadID)

	if err := o.threads.EnsureThread(ctx, user.UserID, threadID, constant.DefaultThreadTitle); err != nil {
		return nil, fmt.Errorf("ensure thread: %w", err)
	}

	if err := emitter.EmitCommands(command.List()); err != nil {
		return nil, fmt.Errorf("publish commands: %w", err)
	}
	if err := emitter.EmitStarters(command.Starters()); err != nil {
		return nil, fmt.Errorf("publish starters: %w", err)
	}

	state.State = store.StateReady
	o.sessionRepo.Save(state)

	o.logger.Info("chat_orchestrator", "session started", map[string]interface{}{
		"session_id": sessionID,
		"user_id":    user.UserID.String(),
		"thread_id":  threadID.String(),
	})

	return &Session{
		orch:    o,
		state:   state,
		agents:  agent.NewSessionManager(),
		emitter: emitter,
	}, nil
}

// Resume reloads an archived thread into the session: history is replaced
// wholesale, both in the session record and in every agent context, so the
// model sees exactly what the archive holds.
func (s *Session) Resume(ctx context.Context) error {
	exchanges, err := s.orch.threads.LoadThread(ctx, s.state.User.UserID, s.state.ThreadID)
	if err != nil {
		s.orch.logger.Error("chat_orchestrator", "resume failed", map[string]interface{}{
			"thread_id": s.state.ThreadID.String(),
			"error":     err.Error(),
		})
		return s.emitter.EmitError("Could not restore the previous conversation.")
	}

	s.state.History = exchanges
	s.state.Renamed = len(exchanges) > 0
	for _, role := range []agent.Role{agent.RoleAssistant, agent.RoleQA, agent.RoleSearch} {
		s.agents.RebuildFromArchive(s.state.User.UserID, role, exchanges)
	}

	s.orch.sessionRepo.Save(s.state)
	return nil
}

// HandleMessage runs one user turn end to end: route, execute, reply,
// archive. Each failure mode degrades in place; the session survives every
// error except a canceled context.
func (s *Session) HandleMessage(ctx context.Context, msg chat.Message) error {
	if s.state.State != store.StateReady {
		return s.emitter.EmitError("Session is not ready yet.")
	}

	userExchange := chat.NewExchange(chat.RoleUser, msg.Content)
	userExchange.Command = msg.Command.String()
	for _, att := range msg.Attachments {
		userExchange.Attachments = append(userExchange.Attachments, chat.AttachmentRef{
			Name: att.Name,
			Mime: att.Mime,
			Size: att.Size,
		})
	}
	s.record(ctx, userExchange)
	s.requestTitle(msg.Content)

	route := router.Resolve(msg)
	s.orch.logger.Debug("chat_orchestrator", "message routed", map[string]interface{}{
		"session_id":  s.state.ID,
		"route":       route.String(),
		"command":     msg.Command.String(),
		"attachments": len(msg.Attachments),
	})

	var reply string
	var err error
	switch route {
	case router.RouteDocumentQA:
		reply, err = s.runDocumentQA(ctx, msg)
	case router.RouteSearch:
		reply, err = s.runSearch(ctx, msg)
	case router.RouteSummary:
		reply, err = s.runSummary(ctx, msg)
	default:
		reply, err = s.runChat(ctx, msg)
	}

	if err != nil {
		// A gone connection means the user gave up on this turn; drop the
		// result instead of reporting into the void.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.orch.logger.Error("chat_orchestrator", "turn failed", map[string]interface{}{
			"session_id": s.state.ID,
			"route":      route.String(),
			"error":      err.Error(),
		})
		return s.emitter.EmitError(turnErrorMessage(err))
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	assistantExchange := chat.NewExchange(chat.RoleAssistant, reply)
	s.record(ctx, assistantExchange)

	return s.emitter.EmitMessage(chat.RoleAssistant, reply)
}

func (s *Session) runChat(ctx context.Context, msg chat.Message) (string, error) {
	execCtx := s.agents.GetOrCreate(s.state.User.UserID, agent.RoleAssistant)

	runCtx, cancel := context.WithTimeout(ctx, constant.AgentRunTimeout)
	defer cancel()

	return s.orch.runner.Run(runCtx, execCtx, msg.Content, nil)
}

func (s *Session) runSearch(ctx context.Context, msg chat.Message) (string, error) {
	tools := s.state.Tools.Lookup(constant.SearchToolProvider)
	if len(tools) == 0 {
		// Search degrades to model knowledge when no tool set was
		// discovered; the user is told rather than silently served a
		// weaker answer.
		if err := s.emitter.EmitMessage(chat.RoleAssistant, "Search tools are unavailable right now, answering from model knowledge only."); err != nil {
			return "", err
		}
	}

	execCtx := s.agents.GetOrCreate(s.state.User.UserID, agent.RoleSearch)

	runCtx, cancel := context.WithTimeout(ctx, constant.AgentRunTimeout)
	defer cancel()

	return s.orch.runner.Run(runCtx, execCtx, msg.Content, tools)
}

func (s *Session) runSummary(ctx context.Context, msg chat.Message) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, constant.SummarizeTimeout)
	defer cancel()

	return s.orch.documents.SummarizeText(runCtx, msg.Content)
}

// runDocumentQA extracts every valid attachment, reports the ones it had to
// skip, then answers the user's instruction against the combined document
// context. With the Summary command selected the extraction itself is the
// answer.
func (s *Session) runDocumentQA(ctx context.Context, msg chat.Message) (string, error) {
	extractCtx, cancel := context.WithTimeout(ctx, constant.SummarizeTimeout)
	defer cancel()

	var sections []string
	for _, att := range msg.Attachments {
		content, err := s.orch.documents.ProcessDocument(extractCtx, att.Name, att.Data, att.Mime)
		if err != nil {
			if ctx.Err() != nil {
				return "", err
			}
			s.orch.logger.Warn("chat_orchestrator", "attachment skipped", map[string]interface{}{
				"session_id": s.state.ID,
				"name":       att.Name,
				"error":      err.Error(),
			})
			if emitErr := s.emitter.EmitError(fmt.Sprintf("Skipped %s: %s", att.Name, skipReason(err))); emitErr != nil {
				return "", emitErr
			}
			continue
		}
		sections = append(sections, fmt.Sprintf("[%s]\n%s", att.Name, content))
	}

	if len(sections) == 0 {
		return "", fmt.Errorf("no readable attachments")
	}

	documentContext := strings.Join(sections, "\n\n")

	// Summary of an uploaded document needs no second model pass; the
	// extraction already is the summary.
	if msg.Command == command.Summary {
		return documentContext, nil
	}

	instruction := msg.Content
	if strings.TrimSpace(instruction) == "" {
		instruction = "Summarize the attached document."
	}

	execCtx := s.agents.GetOrCreate(s.state.User.UserID, agent.RoleQA)
	input := fmt.Sprintf(constant.DocumentContextTemplate, instruction, documentContext)

	runCtx, cancel := context.WithTimeout(ctx, constant.AgentRunTimeout)
	defer cancel()

	return s.orch.runner.Run(runCtx, execCtx, input, nil)
}

// HandleToolDiscovery refreshes the session's cached tool set for one
// provider. Failures leave the previous cache entry in place.
func (s *Session) HandleToolDiscovery(ctx context.Context, provider string) error {
	discoveryCtx, cancel := context.WithTimeout(ctx, constant.ToolDiscoveryTimeout)
	defer cancel()

	tools, err := s.orch.discoverer.ListTools(discoveryCtx, provider)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.orch.logger.Warn("chat_orchestrator", "tool discovery failed", map[string]interface{}{
			"session_id": s.state.ID,
			"provider":   provider,
			"error":      err.Error(),
		})
		return s.emitter.EmitError(fmt.Sprintf("Could not discover tools from %s.", provider))
	}

	s.state.Tools.Replace(provider, tools)
	s.orch.logger.Info("chat_orchestrator", "tools discovered", map[string]interface{}{
		"session_id": s.state.ID,
		"provider":   provider,
		"count":      len(tools),
	})
	return nil
}

// HandleAudioStart opens a recording for this session.
func (s *Session) HandleAudioStart() error {
	if err := s.state.Audio.Start(); err != nil {
		return s.emitter.EmitError("A recording is already in progress.")
	}
	return nil
}

// HandleAudioChunk appends one captured chunk to the open recording.
func (s *Session) HandleAudioChunk(chunk []byte) error {
	if err := s.state.Audio.Append(chunk); err != nil {
		return s.emitter.EmitError("No recording is in progress.")
	}
	return nil
}

// HandleAudioEnd closes the recording, transcribes it and feeds the
// transcript back through the normal message path as if it had been typed.
func (s *Session) HandleAudioEnd(ctx context.Context) error {
	payload, err := s.state.Audio.End()
	if err != nil {
		return s.emitter.EmitError("No recording is in progress.")
	}
	if len(payload) == 0 {
		return s.emitter.EmitError("The recording was empty.")
	}

	transcribeCtx, cancel := context.WithTimeout(ctx, constant.TranscribeTimeout)
	defer cancel()

	transcript, err := s.orch.transcriber.Transcribe(transcribeCtx, payload)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.orch.logger.Error("chat_orchestrator", "transcription failed", map[string]interface{}{
			"session_id": s.state.ID,
			"bytes":      len(payload),
			"error":      err.Error(),
		})
		return s.emitter.EmitError("Could not transcribe the recording.")
	}

	if err := s.emitter.EmitMessage(chat.RoleUser, transcript); err != nil {
		return err
	}

	return s.HandleMessage(ctx, chat.Message{
		Content: transcript,
		Command: s.state.SelectedCommand,
	})
}

// SetCommand records the command tile the UI currently has selected.
func (s *Session) SetCommand(raw string) error {
	cmd, ok := command.Parse(raw)
	if !ok {
		return s.emitter.EmitError(fmt.Sprintf("Unknown command: %s", raw))
	}
	s.state.SelectedCommand = cmd
	return nil
}

// State exposes the session record, mainly for handlers and tests.
func (s *Session) State() *store.SessionState {
	return s.state
}

// Close tears the session down: agent contexts are released and the session
// record leaves the in-memory store. The archived thread is untouched.
func (s *Session) Close() {
	s.agents.Release(s.state.User.UserID)
	s.orch.sessionRepo.Delete(s.state.ID)
	s.orch.logger.Info("chat_orchestrator", "session closed", map[string]interface{}{
		"session_id": s.state.ID,
	})
}

// record appends the exchange to in-memory history and writes it through to
// the archive. Archive failures degrade durability, not the conversation:
// the turn continues in memory and the user is warned once per failure.
func (s *Session) record(ctx context.Context, exchange *chat.Exchange) {
	s.state.History = append(s.state.History, exchange)

	persistCtx, cancel := context.WithTimeout(ctx, constant.PersistTimeout)
	defer cancel()

	if err := s.orch.threads.AppendExchange(persistCtx, s.state.ThreadID, exchange); err != nil {
		s.orch.logger.Error("chat_orchestrator", "exchange not archived", map[string]interface{}{
			"session_id": s.state.ID,
			"thread_id":  s.state.ThreadID.String(),
			"error":      err.Error(),
		})
		if ctx.Err() == nil {
			_ = s.emitter.EmitError("This message could not be saved; the conversation continues but may not survive a reload.")
		}
	}
}

// requestTitle asks for a generated thread title exactly once, on the first
// user message of a fresh thread.
func (s *Session) requestTitle(query string) {
	if s.state.Renamed || strings.TrimSpace(query) == "" {
		return
	}
	if err := s.orch.titles.PublishTitleRequest(s.state.ThreadID, query); err != nil {
		s.orch.logger.Warn("chat_orchestrator", "title request not published", map[string]interface{}{
			"thread_id": s.state.ThreadID.String(),
			"error":     err.Error(),
		})
		return
	}
	s.state.Renamed = true
}

func turnErrorMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "The assistant took too long to respond. Please try again."
	}
	return "Something went wrong while handling your message. Please try again."
}

func skipReason(err error) string {
	msg := err.Error()
	if msg == "" {
		return "could not be processed"
	}
	return msg
}

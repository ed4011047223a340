// FILE: internal/service/title_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/chat"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/llm"
	pktNats "ai-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const titleMaxLen = 120

type ITitleService interface {
	PublishTitleRequest(threadId uuid.UUID, query string) error
	Consume(ctx context.Context) error
}

// titleService generates thread titles in the background: the orchestrator
// drops a request on the in-process queue and the worker renames the thread
// and announces the result on the event bus.
type titleService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	llmProvider    llm.LLMProvider
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewTitleService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ITitleService {
	return &titleService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		llmProvider:    llmProvider,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (ts *titleService) PublishTitleRequest(threadId uuid.UUID, query string) error {
	payload, err := json.Marshal(dto.PublishTitleRequestMessage{
		ThreadId: threadId,
		Query:    query,
	})
	if err != nil {
		return err
	}
	return ts.pubSub.Publish(ts.topicName, message.NewMessage(watermill.NewUUID(), payload))
}

func (ts *titleService) Consume(ctx context.Context) error {
	messages, err := ts.pubSub.Subscribe(ctx, ts.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ts.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ts *titleService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishTitleRequestMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		ts.logger.Error("TitleService", "Failed to unmarshal title request", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	title, err := ts.generateTitle(ctx, payload.Query)
	if err != nil {
		ts.logger.Warn("TitleService", "Title generation failed", map[string]interface{}{
			"thread_id": payload.ThreadId.String(),
			"error":     err.Error(),
		})
		msg.Ack() // The thread keeps its default title; no retry storm
		return
	}

	uow := ts.uowFactory.NewUnitOfWork(ctx)

	thread, err := uow.ThreadRepository().FindOne(ctx, specification.ByID{ID: payload.ThreadId})
	if err != nil || thread == nil {
		ts.logger.Warn("TitleService", "Thread gone before titling", map[string]interface{}{"thread_id": payload.ThreadId.String()})
		msg.Ack()
		return
	}

	if err := uow.ThreadRepository().UpdateTitle(ctx, payload.ThreadId, title); err != nil {
		ts.logger.Error("TitleService", "Failed to store title", map[string]interface{}{
			"thread_id": payload.ThreadId.String(),
			"error":     err.Error(),
		})
		msg.Nack() // Retriable
		return
	}

	if ts.eventPublisher != nil {
		event := events.BaseEvent{
			Type: "THREAD_TITLE_UPDATED",
			Data: map[string]interface{}{
				"thread_id": payload.ThreadId.String(),
				"user_id":   thread.UserId.String(),
				"title":     title,
			},
			OccurredAt: time.Now(),
		}
		if err := ts.eventPublisher.Publish(ctx, event); err != nil {
			ts.logger.Warn("TitleService", "Failed to publish title event", map[string]interface{}{"error": err.Error()})
		}
	}

	msg.Ack()
}

func (ts *titleService) generateTitle(ctx context.Context, query string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, constant.SummarizeTimeout)
	defer cancel()

	raw, err := ts.llmProvider.Generate(genCtx,
		fmt.Sprintf(constant.ThreadTitlePrompt, query),
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(32),
	)
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"`))
	if title == "" {
		return "", fmt.Errorf("model returned an empty title")
	}
	if len(title) > titleMaxLen {
		title = title[:titleMaxLen]
	}
	return title, nil
}

// Ensure the service satisfies the orchestrator's title port
var _ chat.TitlePublisher = (ITitleService)(nil)

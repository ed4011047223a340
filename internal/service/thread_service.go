// FILE: internal/service/thread_service.go
package service

import (
	"context"
	"errors"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/chat"

	"github.com/google/uuid"
)

var ErrThreadNotFound = errors.New("thread not found")

type IThreadService interface {
	// Archive operations used by the chat orchestrator
	EnsureThread(ctx context.Context, userId, threadId uuid.UUID, title string) error
	AppendExchange(ctx context.Context, threadId uuid.UUID, exchange *chat.Exchange) error
	LoadThread(ctx context.Context, userId, threadId uuid.UUID) ([]*chat.Exchange, error)

	// REST surface
	GetAllThreads(ctx context.Context, userId uuid.UUID) ([]*dto.ThreadResponse, error)
	GetThreadDetail(ctx context.Context, userId, threadId uuid.UUID) (*dto.ThreadDetailResponse, error)
	DeleteThread(ctx context.Context, userId, threadId uuid.UUID) error
	SubmitFeedback(ctx context.Context, userId uuid.UUID, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error)
	UpdateTitle(ctx context.Context, threadId uuid.UUID, title string) error
}

type threadService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewThreadService(uowFactory unitofwork.RepositoryFactory) IThreadService {
	return &threadService{
		uowFactory: uowFactory,
	}
}

// EnsureThread creates the thread row if it does not exist yet. The id comes
// from the client so reconnects land on the same thread.
func (s *threadService) EnsureThread(ctx context.Context, userId, threadId uuid.UUID, title string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.ThreadRepository().FindOne(ctx, specification.ByID{ID: threadId})
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.UserId != userId {
			return ErrThreadNotFound
		}
		return nil
	}

	thread := &entity.Thread{
		Id:        threadId,
		UserId:    userId,
		Title:     title,
		CreatedAt: time.Now(),
	}
	return uow.ThreadRepository().Create(ctx, thread)
}

// AppendExchange archives one conversational turn: a step row plus one
// element row per attachment reference.
func (s *threadService) AppendExchange(ctx context.Context, threadId uuid.UUID, exchange *chat.Exchange) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	step := &entity.Step{
		Id:        exchange.Id,
		ThreadId:  threadId,
		Role:      exchange.Role,
		Content:   exchange.Content,
		Command:   exchange.Command,
		CreatedAt: exchange.CreatedAt,
	}
	if err := uow.StepRepository().Create(ctx, step); err != nil {
		return err
	}

	for _, ref := range exchange.Attachments {
		element := &entity.Element{
			Id:        uuid.New(),
			StepId:    step.Id,
			Name:      ref.Name,
			Mime:      ref.Mime,
			Size:      ref.Size,
			CreatedAt: time.Now(),
		}
		if err := uow.ElementRepository().Create(ctx, element); err != nil {
			return err
		}
	}

	return uow.Commit()
}

// LoadThread returns the archived exchanges of a thread in creation order.
// Ownership is enforced; loading someone else's thread behaves like loading
// a missing one.
func (s *threadService) LoadThread(ctx context.Context, userId, threadId uuid.UUID) ([]*chat.Exchange, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, err := uow.ThreadRepository().FindOne(ctx,
		specification.ByID{ID: threadId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}

	steps, err := uow.StepRepository().FindAll(ctx,
		specification.ByThreadID{ThreadID: threadId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	exchanges := make([]*chat.Exchange, 0, len(steps))
	for _, step := range steps {
		exchange := &chat.Exchange{
			Id:        step.Id,
			Role:      step.Role,
			Content:   step.Content,
			Command:   step.Command,
			CreatedAt: step.CreatedAt,
		}

		elements, err := uow.ElementRepository().FindAll(ctx, specification.ByStepID{StepID: step.Id})
		if err != nil {
			return nil, err
		}
		for _, el := range elements {
			exchange.Attachments = append(exchange.Attachments, chat.AttachmentRef{
				Name: el.Name,
				Mime: el.Mime,
				Size: el.Size,
			})
		}

		exchanges = append(exchanges, exchange)
	}
	return exchanges, nil
}

func (s *threadService) GetAllThreads(ctx context.Context, userId uuid.UUID) ([]*dto.ThreadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	threads, err := uow.ThreadRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ThreadResponse, len(threads))
	for i, t := range threads {
		resp := &dto.ThreadResponse{
			Id:        t.Id,
			Title:     t.Title,
			CreatedAt: t.CreatedAt,
		}
		if t.UpdatedAt != nil {
			resp.UpdatedAt = *t.UpdatedAt
		}
		responses[i] = resp
	}
	return responses, nil
}

func (s *threadService) GetThreadDetail(ctx context.Context, userId, threadId uuid.UUID) (*dto.ThreadDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, err := uow.ThreadRepository().FindOne(ctx,
		specification.ByID{ID: threadId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}

	steps, err := uow.StepRepository().FindAll(ctx,
		specification.ByThreadID{ThreadID: threadId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	detail := &dto.ThreadDetailResponse{
		Id:        thread.Id,
		Title:     thread.Title,
		CreatedAt: thread.CreatedAt,
		Steps:     make([]dto.StepResponse, 0, len(steps)),
	}

	for _, step := range steps {
		stepResp := dto.StepResponse{
			Id:        step.Id,
			Role:      step.Role,
			Content:   step.Content,
			Command:   step.Command,
			CreatedAt: step.CreatedAt,
		}

		elements, err := uow.ElementRepository().FindAll(ctx, specification.ByStepID{StepID: step.Id})
		if err != nil {
			return nil, err
		}
		for _, el := range elements {
			stepResp.Elements = append(stepResp.Elements, dto.ElementResponse{
				Id:   el.Id,
				Name: el.Name,
				Mime: el.Mime,
				Size: el.Size,
			})
		}

		feedback, err := uow.FeedbackRepository().FindOne(ctx, specification.ByStepID{StepID: step.Id})
		if err != nil {
			return nil, err
		}
		if feedback != nil {
			stepResp.Feedback = &dto.FeedbackResponse{
				Id:      feedback.Id,
				StepId:  feedback.StepId,
				Value:   feedback.Value,
				Comment: feedback.Comment,
			}
		}

		detail.Steps = append(detail.Steps, stepResp)
	}
	return detail, nil
}

func (s *threadService) DeleteThread(ctx context.Context, userId, threadId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, err := uow.ThreadRepository().FindOne(ctx,
		specification.ByID{ID: threadId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if thread == nil {
		return ErrThreadNotFound
	}

	return uow.ThreadRepository().Delete(ctx, threadId)
}

// SubmitFeedback rates one assistant step. Only steps inside the caller's
// own threads are accepted.
func (s *threadService) SubmitFeedback(ctx context.Context, userId uuid.UUID, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	step, err := uow.StepRepository().FindOne(ctx, specification.ByID{ID: req.StepId})
	if err != nil {
		return nil, err
	}
	if step == nil {
		return nil, ErrThreadNotFound
	}

	thread, err := uow.ThreadRepository().FindOne(ctx,
		specification.ByID{ID: step.ThreadId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}

	feedback := &entity.Feedback{
		Id:        uuid.New(),
		StepId:    req.StepId,
		Value:     req.Value,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	if err := uow.FeedbackRepository().Upsert(ctx, feedback); err != nil {
		return nil, err
	}

	return &dto.FeedbackResponse{
		Id:      feedback.Id,
		StepId:  feedback.StepId,
		Value:   feedback.Value,
		Comment: feedback.Comment,
	}, nil
}

func (s *threadService) UpdateTitle(ctx context.Context, threadId uuid.UUID, title string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ThreadRepository().UpdateTitle(ctx, threadId, title)
}

// Ensure the service satisfies the orchestrator's archive port
var _ chat.ThreadStore = (IThreadService)(nil)

package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ThreadRepository interface {
	Create(ctx context.Context, thread *entity.Thread) error
	Update(ctx context.Context, thread *entity.Thread) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error // Hard delete all
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Thread, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Thread, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
}

type StepRepository interface {
	Create(ctx context.Context, step *entity.Step) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Step, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Step, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type ElementRepository interface {
	Create(ctx context.Context, element *entity.Element) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Element, error)
}

type FeedbackRepository interface {
	Upsert(ctx context.Context, feedback *entity.Feedback) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feedback, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

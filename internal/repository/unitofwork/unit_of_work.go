package unitofwork

import (
	"context"

	"ai-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository

	ThreadRepository() contract.ThreadRepository
	StepRepository() contract.StepRepository
	ElementRepository() contract.ElementRepository
	FeedbackRepository() contract.FeedbackRepository
}

package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	UpdateAvatar(ctx context.Context, userId uuid.UUID, avatarURL string) error

	// Provider
	SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error

	// Refresh tokens
	CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
}

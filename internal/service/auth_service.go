// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"

	"ai-assistant-be/pkg/events"
	pktNats "ai-assistant-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

func signAccessToken(user *entity.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   user.Id.String(),
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role,
		"exp":       time.Now().Add(time.Hour * 24).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	return token.SignedString([]byte(secret))
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Check for existing user
	existing, _ := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	// 2. Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	// 3. Create User Entity
	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Check if user exists
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if user == nil {
		return nil, errors.New("invalid credentials")
	}

	// 2. Check if user has a password (might be OAuth only)
	if user.PasswordHash == nil {
		return nil, errors.New("user registered via OAuth")
	}

	// 3. Compare passwords
	err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password))
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	// 4. Check if user is blocked/suspended
	if user.Status == entity.UserStatusBlocked {
		return nil, errors.New("user account is blocked")
	}

	// 5. Generate JWT
	signedToken, err := signAccessToken(user)
	if err != nil {
		return nil, err
	}

	var rawRefreshToken string

	// Only issue a refresh token when "Remember Me" was checked
	if req.RememberMe {
		rawRefreshToken = uuid.New().String()

		hasher := sha256.New()
		hasher.Write([]byte(rawRefreshToken))
		tokenHash := hex.EncodeToString(hasher.Sum(nil))

		refreshTokenEntity := &entity.UserRefreshToken{
			Id:        uuid.New(),
			UserId:    user.Id,
			TokenHash: tokenHash,
			ExpiresAt: time.Now().Add(time.Hour * 24 * 30),
			Revoked:   false,
			CreatedAt: time.Now(),
			IpAddress: ipAddress,
			UserAgent: userAgent,
		}

		err = uow.UserRepository().CreateRefreshToken(ctx, refreshTokenEntity)
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %v", err)
		}
	}

	// PUBLISH EVENT
	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: "USER_LOGIN",
			Data: map[string]interface{}{
				"user_id": user.Id,
				"device":  userAgent,
				"time":    time.Now().Format(time.RFC822),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_LOGIN event: %v\n", err)
		}
	}

	return &dto.LoginResponse{
		AccessToken:  signedToken,
		RefreshToken: rawRefreshToken,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     string(user.Role),
		},
	}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	hasher := sha256.New()
	hasher.Write([]byte(refreshToken))
	tokenHash := hex.EncodeToString(hasher.Sum(nil))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().RevokeRefreshToken(ctx, tokenHash)
}

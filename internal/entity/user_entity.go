// FILE: internal/entity/user_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	FullName     string
	Role         UserRole
	Status       UserStatus
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserProvider struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ProviderName   string
	ProviderUserId string
	AvatarURL      string
	CreatedAt      time.Time
}

type UserRefreshToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	IpAddress string // Optional
	UserAgent string // Optional
}

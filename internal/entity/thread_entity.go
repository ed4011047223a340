package entity

import (
	"time"

	"github.com/google/uuid"
)

type Thread struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type Step struct {
	Id        uuid.UUID
	ThreadId  uuid.UUID
	Role      string
	Content   string
	Command   string
	Metadata  map[string]interface{}
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type Element struct {
	Id        uuid.UUID
	StepId    uuid.UUID
	Name      string
	Mime      string
	Size      int64
	CreatedAt time.Time
}

type Feedback struct {
	Id        uuid.UUID
	StepId    uuid.UUID
	Value     int
	Comment   string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

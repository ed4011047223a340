// FILE: internal/dto/thread_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type ThreadResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ElementResponse struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Mime string    `json:"mime"`
	Size int64     `json:"size"`
}

type StepResponse struct {
	Id        uuid.UUID         `json:"id"`
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Command   string            `json:"command,omitempty"`
	Elements  []ElementResponse `json:"elements,omitempty"`
	Feedback  *FeedbackResponse `json:"feedback,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type ThreadDetailResponse struct {
	Id        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Steps     []StepResponse `json:"steps"`
	CreatedAt time.Time      `json:"created_at"`
}

type FeedbackRequest struct {
	StepId  uuid.UUID `json:"step_id" validate:"required"`
	Value   int       `json:"value" validate:"required,oneof=-1 1"`
	Comment string    `json:"comment"`
}

// PublishTitleRequestMessage rides the in-process job queue from the chat
// orchestrator to the title worker.
type PublishTitleRequestMessage struct {
	ThreadId uuid.UUID `json:"thread_id"`
	Query    string    `json:"query"`
}

type FeedbackResponse struct {
	Id      uuid.UUID `json:"id"`
	StepId  uuid.UUID `json:"step_id"`
	Value   int       `json:"value"`
	Comment string    `json:"comment,omitempty"`
}

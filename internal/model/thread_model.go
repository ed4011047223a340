package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Thread struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Title     string         `gorm:"type:text;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Thread) TableName() string {
	return "threads"
}

type Step struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ThreadId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Thread    *Thread        `gorm:"foreignKey:ThreadId;constraint:OnDelete:CASCADE"`
	Role      string         `gorm:"type:varchar(50);not null"`
	Content   string         `gorm:"type:text;not null"`
	Command   string         `gorm:"type:varchar(50)"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Step) TableName() string {
	return "steps"
}

type Element struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StepId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Step      *Step     `gorm:"foreignKey:StepId;constraint:OnDelete:CASCADE"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Mime      string    `gorm:"type:varchar(127)"`
	Size      int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Element) TableName() string {
	return "elements"
}

type Feedback struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StepId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Step      *Step     `gorm:"foreignKey:StepId;constraint:OnDelete:CASCADE"`
	Value     int       `gorm:"not null"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

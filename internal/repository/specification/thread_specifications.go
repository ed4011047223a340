package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByThreadID struct {
	ThreadID uuid.UUID
}

func (s ByThreadID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("thread_id = ?", s.ThreadID)
}

type ByStepID struct {
	StepID uuid.UUID
}

func (s ByStepID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("step_id = ?", s.StepID)
}

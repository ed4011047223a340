package mapper

import (
	"encoding/json"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ThreadMapper struct{}

func NewThreadMapper() *ThreadMapper {
	return &ThreadMapper{}
}

// Thread Mappers

func (m *ThreadMapper) ThreadToEntity(t *model.Thread) *entity.Thread {
	if t == nil {
		return nil
	}

	var deletedAt *time.Time
	if t.DeletedAt.Valid {
		dt := t.DeletedAt.Time
		deletedAt = &dt
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		ut := t.UpdatedAt
		updatedAt = &ut
	}

	return &entity.Thread{
		Id:        t.Id,
		UserId:    t.UserId,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: t.DeletedAt.Valid,
	}
}

func (m *ThreadMapper) ThreadToModel(t *entity.Thread) *model.Thread {
	if t == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if t.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *t.DeletedAt, Valid: true}
	} else if t.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.Thread{
		Id:        t.Id,
		UserId:    t.UserId,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ThreadMapper) ThreadsToEntities(threads []*model.Thread) []*entity.Thread {
	entities := make([]*entity.Thread, len(threads))
	for i, t := range threads {
		entities[i] = m.ThreadToEntity(t)
	}
	return entities
}

// Step Mappers

func (m *ThreadMapper) StepToEntity(s *model.Step) *entity.Step {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		dt := s.DeletedAt.Time
		deletedAt = &dt
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		ut := s.UpdatedAt
		updatedAt = &ut
	}

	var metadata map[string]interface{}
	if len(s.Metadata) > 0 {
		_ = json.Unmarshal(s.Metadata, &metadata)
	}

	return &entity.Step{
		Id:        s.Id,
		ThreadId:  s.ThreadId,
		Role:      s.Role,
		Content:   s.Content,
		Command:   s.Command,
		Metadata:  metadata,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *ThreadMapper) StepToModel(s *entity.Step) *model.Step {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	var metadata datatypes.JSON
	if s.Metadata != nil {
		if raw, err := json.Marshal(s.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.Step{
		Id:        s.Id,
		ThreadId:  s.ThreadId,
		Role:      s.Role,
		Content:   s.Content,
		Command:   s.Command,
		Metadata:  metadata,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ThreadMapper) StepsToEntities(steps []*model.Step) []*entity.Step {
	entities := make([]*entity.Step, len(steps))
	for i, s := range steps {
		entities[i] = m.StepToEntity(s)
	}
	return entities
}

// Element Mappers

func (m *ThreadMapper) ElementToEntity(e *model.Element) *entity.Element {
	if e == nil {
		return nil
	}
	return &entity.Element{
		Id:        e.Id,
		StepId:    e.StepId,
		Name:      e.Name,
		Mime:      e.Mime,
		Size:      e.Size,
		CreatedAt: e.CreatedAt,
	}
}

func (m *ThreadMapper) ElementToModel(e *entity.Element) *model.Element {
	if e == nil {
		return nil
	}
	return &model.Element{
		Id:        e.Id,
		StepId:    e.StepId,
		Name:      e.Name,
		Mime:      e.Mime,
		Size:      e.Size,
		CreatedAt: e.CreatedAt,
	}
}

func (m *ThreadMapper) ElementsToEntities(elements []*model.Element) []*entity.Element {
	entities := make([]*entity.Element, len(elements))
	for i, e := range elements {
		entities[i] = m.ElementToEntity(e)
	}
	return entities
}

// Feedback Mappers

func (m *ThreadMapper) FeedbackToEntity(f *model.Feedback) *entity.Feedback {
	if f == nil {
		return nil
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		ut := f.UpdatedAt
		updatedAt = &ut
	}

	return &entity.Feedback{
		Id:        f.Id,
		StepId:    f.StepId,
		Value:     f.Value,
		Comment:   f.Comment,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ThreadMapper) FeedbackToModel(f *entity.Feedback) *model.Feedback {
	if f == nil {
		return nil
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.Feedback{
		Id:        f.Id,
		StepId:    f.StepId,
		Value:     f.Value,
		Comment:   f.Comment,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

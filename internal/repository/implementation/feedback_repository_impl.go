package implementation

import (
	"context"
	"errors"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedbackRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ThreadMapper
}

func NewFeedbackRepository(db *gorm.DB) contract.FeedbackRepository {
	return &FeedbackRepositoryImpl{
		db:     db,
		mapper: mapper.NewThreadMapper(),
	}
}

// Upsert writes the feedback, replacing an existing row for the same step so
// a user re-rating a reply does not accumulate duplicates.
func (r *FeedbackRepositoryImpl) Upsert(ctx context.Context, feedback *entity.Feedback) error {
	m := r.mapper.FeedbackToModel(feedback)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "step_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "comment", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*feedback = *r.mapper.FeedbackToEntity(m)
	return nil
}

func (r *FeedbackRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feedback, error) {
	var m model.Feedback
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.FeedbackToEntity(&m), nil
}

func (r *FeedbackRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Feedback{}, id).Error
}

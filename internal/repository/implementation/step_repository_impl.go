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
)

type StepRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ThreadMapper
}

func NewStepRepository(db *gorm.DB) contract.StepRepository {
	return &StepRepositoryImpl{
		db:     db,
		mapper: mapper.NewThreadMapper(),
	}
}

func (r *StepRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *StepRepositoryImpl) Create(ctx context.Context, step *entity.Step) error {
	m := r.mapper.StepToModel(step)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*step = *r.mapper.StepToEntity(m)
	return nil
}

func (r *StepRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Step{}, id).Error
}

func (r *StepRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Step, error) {
	var m model.Step
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.StepToEntity(&m), nil
}

func (r *StepRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Step, error) {
	var models []*model.Step
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.StepsToEntities(models), nil
}

func (r *StepRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Step{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

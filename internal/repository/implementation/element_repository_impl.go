package implementation

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ElementRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ThreadMapper
}

func NewElementRepository(db *gorm.DB) contract.ElementRepository {
	return &ElementRepositoryImpl{
		db:     db,
		mapper: mapper.NewThreadMapper(),
	}
}

func (r *ElementRepositoryImpl) Create(ctx context.Context, element *entity.Element) error {
	m := r.mapper.ElementToModel(element)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*element = *r.mapper.ElementToEntity(m)
	return nil
}

func (r *ElementRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Element, error) {
	var models []*model.Element
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ElementsToEntities(models), nil
}

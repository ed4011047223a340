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

type ThreadRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ThreadMapper
}

func NewThreadRepository(db *gorm.DB) contract.ThreadRepository {
	return &ThreadRepositoryImpl{
		db:     db,
		mapper: mapper.NewThreadMapper(),
	}
}

func (r *ThreadRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ThreadRepositoryImpl) Create(ctx context.Context, thread *entity.Thread) error {
	m := r.mapper.ThreadToModel(thread)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*thread = *r.mapper.ThreadToEntity(m)
	return nil
}

func (r *ThreadRepositoryImpl) Update(ctx context.Context, thread *entity.Thread) error {
	m := r.mapper.ThreadToModel(thread)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*thread = *r.mapper.ThreadToEntity(m)
	return nil
}

func (r *ThreadRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Thread{}, id).Error
}

func (r *ThreadRepositoryImpl) DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("user_id = ?", userId).Delete(&model.Thread{}).Error
}

func (r *ThreadRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Thread, error) {
	var m model.Thread
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ThreadToEntity(&m), nil
}

func (r *ThreadRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Thread, error) {
	var models []*model.Thread
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ThreadsToEntities(models), nil
}

func (r *ThreadRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Thread{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ThreadRepositoryImpl) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	return r.db.WithContext(ctx).Model(&model.Thread{}).Where("id = ?", id).Update("title", title).Error
}

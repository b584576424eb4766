package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"gorm.io/gorm"
)

type PhotoRepo interface {
	Create(ctx context.Context, p *model.Photo) error
	Get(ctx context.Context, id uuid.UUID) (*model.Photo, error)
	// Update writes the given columns; nil values clear them.
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Photo, error)
}

type photoRepo struct{ db *gorm.DB }

func NewPhotoRepo(db *gorm.DB) PhotoRepo {
	return &photoRepo{db: db}
}

func (r *photoRepo) Create(ctx context.Context, p *model.Photo) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *photoRepo) Get(ctx context.Context, id uuid.UUID) (*model.Photo, error) {
	var p model.Photo
	if err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *photoRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&model.Photo{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *photoRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Photo, error) {
	var photos []*model.Photo
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&photos).Error
	return photos, err
}

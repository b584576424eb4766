package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"gorm.io/gorm"
)

type PhotoCategoryRepo interface {
	Create(ctx context.Context, c *model.PhotoCategory) error
	Get(ctx context.Context, id uuid.UUID) (*model.PhotoCategory, error)
	Save(ctx context.Context, c *model.PhotoCategory) error
	List(ctx context.Context) ([]*model.PhotoCategory, error)
}

type photoCategoryRepo struct{ db *gorm.DB }

func NewPhotoCategoryRepo(db *gorm.DB) PhotoCategoryRepo {
	return &photoCategoryRepo{db: db}
}

func (r *photoCategoryRepo) Create(ctx context.Context, c *model.PhotoCategory) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *photoCategoryRepo) Get(ctx context.Context, id uuid.UUID) (*model.PhotoCategory, error) {
	var c model.PhotoCategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *photoCategoryRepo) Save(ctx context.Context, c *model.PhotoCategory) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *photoCategoryRepo) List(ctx context.Context) ([]*model.PhotoCategory, error) {
	var cats []*model.PhotoCategory
	return cats, r.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&cats).Error
}

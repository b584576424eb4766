package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"gorm.io/gorm"
)

type CompanyRepo interface {
	Create(ctx context.Context, c *model.Company) error
	Get(ctx context.Context, id uuid.UUID) (*model.Company, error)
}

type companyRepo struct{ db *gorm.DB }

func NewCompanyRepo(db *gorm.DB) CompanyRepo {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, c *model.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *companyRepo) Get(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var c model.Company
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

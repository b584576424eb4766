package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"gorm.io/gorm"
)

type DocumentRepo interface {
	Create(ctx context.Context, d *model.Document) error
	Get(ctx context.Context, id uuid.UUID) (*model.Document, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Document, error)
}

type documentRepo struct{ db *gorm.DB }

func NewDocumentRepo(db *gorm.DB) DocumentRepo {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, d *model.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *documentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var d model.Document
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Document, error) {
	var docs []*model.Document
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&docs).Error
	return docs, err
}

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"gorm.io/gorm"
)

// ProjectAuditLogRepo is append-only.
type ProjectAuditLogRepo interface {
	Append(ctx context.Context, l *model.ProjectAuditLog) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.ProjectAuditLog, error)
}

type projectAuditLogRepo struct{ db *gorm.DB }

func NewProjectAuditLogRepo(db *gorm.DB) ProjectAuditLogRepo {
	return &projectAuditLogRepo{db: db}
}

func (r *projectAuditLogRepo) Append(ctx context.Context, l *model.ProjectAuditLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *projectAuditLogRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.ProjectAuditLog, error) {
	var logs []*model.ProjectAuditLog
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("occurred_at ASC, id ASC").
		Find(&logs).Error
	return logs, err
}

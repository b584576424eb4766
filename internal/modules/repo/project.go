package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"gorm.io/gorm"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project) error
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]*model.Project, error)
	// ListByIDs returns every project when ids is empty.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Project, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ProjectStatus, scheduledDate *time.Time) error
	MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error
	ListStartedBetween(ctx context.Context, from, to time.Time, companyID *uuid.UUID) ([]*model.Project, error)
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Subcontractor").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) List(ctx context.Context, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]*model.Project, error) {
	q := r.db.WithContext(ctx).Model(&model.Project{})

	if !afterCreatedAt.IsZero() && afterID != uuid.Nil {
		q = q.Where(
			"(projects.created_at < ?) OR (projects.created_at = ? AND projects.id < ?)",
			afterCreatedAt, afterCreatedAt, afterID,
		)
	}

	var projects []*model.Project
	query := q.Order("projects.created_at DESC, projects.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return projects, query.Find(&projects).Error
}

func (r *projectRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Project, error) {
	q := r.db.WithContext(ctx).Preload("Company").Preload("Subcontractor")
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}

	var projects []*model.Project
	return projects, q.Order("created_at ASC, id ASC").Find(&projects).Error
}

func (r *projectRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ProjectStatus, scheduledDate *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if scheduledDate != nil {
		updates["scheduled_date"] = *scheduledDate
	}
	res := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkStarted writes started_at unconditionally. Callers check for an existing value first;
// two concurrent callers may both write, which leaves an equivalent timestamp.
func (r *projectRepo) MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Update("started_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListStartedBetween returns projects with started_at in [from, to), oldest first.
func (r *projectRepo) ListStartedBetween(ctx context.Context, from, to time.Time, companyID *uuid.UUID) ([]*model.Project, error) {
	q := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Subcontractor").
		Where("started_at IS NOT NULL AND started_at >= ? AND started_at < ?", from, to)
	if companyID != nil {
		q = q.Where("company_id = ?", *companyID)
	}

	var projects []*model.Project
	return projects, q.Order("started_at ASC, id ASC").Find(&projects).Error
}

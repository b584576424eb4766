package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/repo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectAuditLogService interface {
	List(ctx context.Context, projectID uuid.UUID) ([]model.ProjectAuditLogEntry, error)
}

type projectAuditLogService struct {
	projects repo.ProjectRepo
	logs     repo.ProjectAuditLogRepo
}

func NewProjectAuditLogService(projects repo.ProjectRepo, logs repo.ProjectAuditLogRepo) ProjectAuditLogService {
	return &projectAuditLogService{projects: projects, logs: logs}
}

func (s *projectAuditLogService) List(ctx context.Context, projectID uuid.UUID) ([]model.ProjectAuditLogEntry, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	logs, err := s.logs.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProjectAuditLogEntry, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.Entry())
	}
	return out, nil
}

// auditor appends audit entries on behalf of other services. A failed append
// is logged; the audited operation has already happened.
type auditor struct {
	logs repo.ProjectAuditLogRepo
	log  *zap.Logger
	now  func() time.Time
}

func newAuditor(logs repo.ProjectAuditLogRepo, log *zap.Logger) auditor {
	return auditor{logs: logs, log: log, now: time.Now}
}

func (a auditor) record(ctx context.Context, projectID uuid.UUID, action, module string, actor *model.AuditUser, details map[string]interface{}) {
	if a.logs == nil {
		return
	}
	entry := &model.ProjectAuditLog{
		ProjectID: projectID,
		Action:    action,
		Timestamp: a.now().UTC(),
		Module:    module,
		Details:   datatypes.JSONMap(details),
	}
	if actor != nil && actor.Email != "" {
		entry.UserEmail = &actor.Email
		if actor.Username != "" {
			entry.UserUsername = &actor.Username
		}
	}
	if err := a.logs.Append(ctx, entry); err != nil {
		a.log.Warn("append audit entry failed",
			zap.String("project_id", projectID.String()),
			zap.String("action", action),
			zap.Error(err))
	}
}

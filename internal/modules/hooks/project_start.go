// Package hooks holds the lifecycle hooks registered on the dispatcher at startup.
package hooks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	mq "github.com/szigetelo/backoffice/internal/infra/queue"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/repo"
	"github.com/szigetelo/backoffice/internal/pkg/lifecycle"
	"github.com/szigetelo/backoffice/internal/pkg/relation"
	"github.com/szigetelo/backoffice/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey string, ev any) error
}

// ProjectStartTrigger stamps a project's started_at when its first document or
// photo is created.
//
// The check and the write are separate statements without a lock. Two children
// created at the same moment can both see started_at unset and both write it;
// the stored value is then the later of two near-identical instants.
type ProjectStartTrigger struct {
	projects   repo.ProjectRepo
	audit      repo.ProjectAuditLogRepo
	events     EventPublisher
	routingKey string
	log        *zap.Logger
	now        func() time.Time
}

// NewProjectStartTrigger builds the trigger. events may be nil.
func NewProjectStartTrigger(projects repo.ProjectRepo, audit repo.ProjectAuditLogRepo, events EventPublisher, routingKey string, log *zap.Logger) *ProjectStartTrigger {
	return &ProjectStartTrigger{
		projects:   projects,
		audit:      audit,
		events:     events,
		routingKey: routingKey,
		log:        log,
		now:        time.Now,
	}
}

func (t *ProjectStartTrigger) Register(d *lifecycle.Dispatcher) {
	d.On(model.UIDDocument, lifecycle.AfterCreate, t.Handle)
	d.On(model.UIDPhoto, lifecycle.AfterCreate, t.Handle)
}

// Handle never returns an error; failures are logged at warn level.
func (t *ProjectStartTrigger) Handle(ctx context.Context, ev *lifecycle.Event) error {
	ref, recordID := projectRef(ev.Result)
	rawID, ok := ref.ID()
	if !ok {
		return nil
	}
	projectID, err := uuid.Parse(rawID)
	if err != nil {
		t.warn(ctx, ev, "resolve", err, zap.String("project_ref", rawID))
		return nil
	}

	project, err := t.projects.Get(ctx, projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		t.warn(ctx, ev, "fetch", err, zap.String("project_id", rawID))
		return nil
	}
	if project.StartedAt != nil {
		return nil
	}

	startedAt := t.now().UTC()
	if err := t.projects.MarkStarted(ctx, projectID, startedAt); err != nil {
		t.warn(ctx, ev, "update", err, zap.String("project_id", rawID))
		return nil
	}
	telemetry.RecordProjectStarted(ctx, ev.Model)
	t.log.Info("project started",
		zap.String("project_id", rawID),
		zap.String("trigger", ev.Model),
		zap.String("record_id", recordID))

	if err := t.audit.Append(ctx, &model.ProjectAuditLog{
		ProjectID: projectID,
		Action:    model.AuditActionProjectStarted,
		Timestamp: startedAt,
		Module:    ev.Model,
		Details:   datatypes.JSONMap{"record_id": recordID},
	}); err != nil {
		t.warn(ctx, ev, "audit", err, zap.String("project_id", rawID))
	}

	if t.events != nil {
		if err := t.events.PublishEvent(ctx, t.routingKey, mq.ProjectStartedEvent{
			ProjectID: rawID,
			StartedAt: startedAt,
			Trigger:   ev.Model,
			RecordID:  recordID,
		}); err != nil {
			t.warn(ctx, ev, "publish", err, zap.String("project_id", rawID))
		}
	}
	return nil
}

func (t *ProjectStartTrigger) warn(ctx context.Context, ev *lifecycle.Event, stage string, err error, fields ...zap.Field) {
	telemetry.RecordProjectStartFailed(ctx, stage)
	fields = append(fields, zap.String("model", ev.Model), zap.String("stage", stage), zap.Error(err))
	t.log.Warn("project start trigger failed", fields...)
}

// projectRef reads the project relation off a created record, either a typed
// model or a raw decoded payload.
func projectRef(result any) (relation.Ref, string) {
	switch r := result.(type) {
	case model.ProjectChild:
		return r.ProjectRelation(), r.RecordID()
	case map[string]any:
		id, _ := relation.Parse(r).ID()
		return relation.Parse(r["project"]), id
	default:
		return relation.Ref{}, ""
	}
}

package hooks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/szigetelo/backoffice/internal/infra/db"
	mq "github.com/szigetelo/backoffice/internal/infra/queue"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/repo"
	"github.com/szigetelo/backoffice/internal/pkg/lifecycle"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []any
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, ev any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type triggerFixture struct {
	gdb        *gorm.DB
	projects   repo.ProjectRepo
	audit      repo.ProjectAuditLogRepo
	dispatcher *lifecycle.Dispatcher
	trigger    *ProjectStartTrigger
	pub        *recordingPublisher
	logs       *observer.ObservedLogs
}

func newTriggerFixture(t *testing.T) *triggerFixture {
	gdb := setupTestDB(t)
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)

	f := &triggerFixture{
		gdb:        gdb,
		projects:   repo.NewProjectRepo(gdb),
		audit:      repo.NewProjectAuditLogRepo(gdb),
		dispatcher: lifecycle.NewDispatcher(log),
		pub:        &recordingPublisher{},
		logs:       logs,
	}
	f.trigger = NewProjectStartTrigger(f.projects, f.audit, f.pub, "project.started", log)
	f.trigger.Register(f.dispatcher)
	return f
}

func TestProjectStartTrigger_FirstDocumentStartsProject(t *testing.T) {
	f := newTriggerFixture(t)
	ctx := context.Background()

	fixed := time.Date(2024, 5, 17, 8, 30, 0, 0, time.UTC)
	f.trigger.now = func() time.Time { return fixed }

	p := &model.Project{Title: "Padlás"}
	require.NoError(t, f.projects.Create(ctx, p))

	doc := &model.Document{ID: uuid.New(), ProjectID: &p.ID}
	f.dispatcher.After(ctx, model.UIDDocument, lifecycle.AfterCreate, doc)

	got, err := f.projects.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StartedAt)
	assert.True(t, fixed.Equal(*got.StartedAt))

	logs, err := f.audit.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.AuditActionProjectStarted, logs[0].Action)
	assert.Equal(t, model.UIDDocument, logs[0].Module)

	require.Len(t, f.pub.events, 1)
	ev := f.pub.events[0].(mq.ProjectStartedEvent)
	assert.Equal(t, p.ID.String(), ev.ProjectID)
	assert.Equal(t, doc.ID.String(), ev.RecordID)
}

func TestProjectStartTrigger_SecondChildLeavesStartedAt(t *testing.T) {
	f := newTriggerFixture(t)
	ctx := context.Background()

	first := time.Date(2024, 5, 17, 8, 30, 0, 0, time.UTC)
	f.trigger.now = func() time.Time { return first }

	p := &model.Project{Title: "Homlokzat"}
	require.NoError(t, f.projects.Create(ctx, p))

	f.dispatcher.After(ctx, model.UIDDocument, lifecycle.AfterCreate, &model.Document{ID: uuid.New(), ProjectID: &p.ID})

	f.trigger.now = func() time.Time { return first.Add(24 * time.Hour) }
	f.dispatcher.After(ctx, model.UIDDocument, lifecycle.AfterCreate, &model.Document{ID: uuid.New(), ProjectID: &p.ID})
	f.dispatcher.After(ctx, model.UIDPhoto, lifecycle.AfterCreate, &model.Photo{ID: uuid.New(), ProjectID: &p.ID})

	got, err := f.projects.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StartedAt)
	assert.True(t, first.Equal(*got.StartedAt))

	logs, err := f.audit.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Len(t, f.pub.events, 1)
}

func TestProjectStartTrigger_PhotoStartsProject(t *testing.T) {
	f := newTriggerFixture(t)
	ctx := context.Background()

	p := &model.Project{Title: "Pince"}
	require.NoError(t, f.projects.Create(ctx, p))

	f.dispatcher.After(ctx, model.UIDPhoto, lifecycle.AfterCreate, &model.Photo{ID: uuid.New(), ProjectID: &p.ID})

	got, err := f.projects.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.StartedAt)
}

func TestProjectStartTrigger_NoOps(t *testing.T) {
	f := newTriggerFixture(t)
	ctx := context.Background()

	// no project relation
	require.NoError(t, f.trigger.Handle(ctx, &lifecycle.Event{Model: model.UIDDocument, Result: &model.Document{}}))
	// unknown project
	missing := uuid.New()
	require.NoError(t, f.trigger.Handle(ctx, &lifecycle.Event{Model: model.UIDDocument, Result: &model.Document{ProjectID: &missing}}))
	// unrelated result type
	require.NoError(t, f.trigger.Handle(ctx, &lifecycle.Event{Model: model.UIDDocument, Result: 42}))

	assert.Empty(t, f.pub.events)
	assert.Equal(t, 0, f.logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestProjectStartTrigger_RawPayloadShapes(t *testing.T) {
	f := newTriggerFixture(t)
	ctx := context.Background()

	shapes := []func(id string) any{
		func(id string) any { return id },
		func(id string) any { return map[string]any{"id": id} },
		func(id string) any { return map[string]any{"data": map[string]any{"id": id}} },
		func(id string) any { return map[string]any{"attributes": map[string]any{"documentId": id}} },
	}
	for _, shape := range shapes {
		p := &model.Project{Title: "t"}
		require.NoError(t, f.projects.Create(ctx, p))

		record := map[string]any{"id": uuid.NewString(), "project": shape(p.ID.String())}
		require.NoError(t, f.trigger.Handle(ctx, &lifecycle.Event{Model: model.UIDDocument, Result: record}))

		got, err := f.projects.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.StartedAt)
	}
}

func TestProjectStartTrigger_MalformedID(t *testing.T) {
	f := newTriggerFixture(t)

	record := map[string]any{"project": "not-a-uuid"}
	require.NoError(t, f.trigger.Handle(context.Background(), &lifecycle.Event{Model: model.UIDPhoto, Result: record}))
	assert.Equal(t, 1, f.logs.FilterMessage("project start trigger failed").Len())
}

type MockProjectRepo struct {
	mock.Mock
	repo.ProjectRepo
}

func (m *MockProjectRepo) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*model.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepo) MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func TestProjectStartTrigger_LookupFailureSwallowed(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	projects := &MockProjectRepo{}
	projectID := uuid.New()
	projects.On("Get", mock.Anything, projectID).Return(nil, errors.New("connection reset"))

	trigger := NewProjectStartTrigger(projects, nil, nil, "project.started", log)
	d := lifecycle.NewDispatcher(log)
	trigger.Register(d)

	assert.NotPanics(t, func() {
		d.After(context.Background(), model.UIDDocument, lifecycle.AfterCreate, &model.Document{ProjectID: &projectID})
	})

	projects.AssertExpectations(t)
	projects.AssertNotCalled(t, "MarkStarted", mock.Anything, mock.Anything, mock.Anything)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "fetch", logs.All()[0].ContextMap()["stage"])
}

func TestProjectStartTrigger_UpdateFailureSwallowed(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	projects := &MockProjectRepo{}
	projectID := uuid.New()
	projects.On("Get", mock.Anything, projectID).Return(&model.Project{ID: projectID}, nil)
	projects.On("MarkStarted", mock.Anything, projectID, mock.Anything).Return(errors.New("deadlock"))

	trigger := NewProjectStartTrigger(projects, nil, nil, "project.started", zap.New(core))
	err := trigger.Handle(context.Background(), &lifecycle.Event{Model: model.UIDPhoto, Result: &model.Photo{ProjectID: &projectID}})

	assert.NoError(t, err)
	projects.AssertExpectations(t)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "update", logs.All()[0].ContextMap()["stage"])
}

func TestProjectStartTrigger_PublishFailureSwallowed(t *testing.T) {
	f := newTriggerFixture(t)
	f.pub.err = errors.New("channel closed")
	ctx := context.Background()

	p := &model.Project{Title: "t"}
	require.NoError(t, f.projects.Create(ctx, p))

	require.NoError(t, f.trigger.Handle(ctx, &lifecycle.Event{Model: model.UIDPhoto, Result: &model.Photo{ID: uuid.New(), ProjectID: &p.ID}}))

	got, err := f.projects.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.StartedAt)
	assert.Equal(t, 1, f.logs.FilterLevelExact(zap.WarnLevel).Len())
}

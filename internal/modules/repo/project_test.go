package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"gorm.io/gorm"
)

func TestProjectRepo_CreateGet(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()

	company := &model.Company{Name: "Hőszig Kft."}
	require.NoError(t, NewCompanyRepo(gdb).Create(ctx, company))

	r := NewProjectRepo(gdb)
	p := &model.Project{Title: "Padlásfödém", CompanyID: &company.ID}
	require.NoError(t, r.Create(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, model.ProjectStatusPending, p.Status)

	got, err := r.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Padlásfödém", got.Title)
	assert.Nil(t, got.StartedAt)
	require.NotNil(t, got.Company)
	assert.Equal(t, "Hőszig Kft.", got.Company.Name)

	_, err = r.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProjectRepo_MarkStarted(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	r := NewProjectRepo(gdb)

	p := &model.Project{Title: "Homlokzat"}
	require.NoError(t, r.Create(ctx, p))

	at := time.Date(2024, 5, 17, 8, 30, 0, 0, time.UTC)
	require.NoError(t, r.MarkStarted(ctx, p.ID, at))

	got, err := r.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StartedAt)
	assert.True(t, at.Equal(*got.StartedAt))

	assert.ErrorIs(t, r.MarkStarted(ctx, uuid.New(), at), gorm.ErrRecordNotFound)
}

func TestProjectRepo_UpdateStatus(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	r := NewProjectRepo(gdb)

	p := &model.Project{Title: "Pince"}
	require.NoError(t, r.Create(ctx, p))

	when := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.UpdateStatus(ctx, p.ID, model.ProjectStatusScheduled, &when))

	got, err := r.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusScheduled, got.Status)
	require.NotNil(t, got.ScheduledDate)
	assert.True(t, when.Equal(*got.ScheduledDate))

	assert.ErrorIs(t, r.UpdateStatus(ctx, uuid.New(), model.ProjectStatusApproved, nil), gorm.ErrRecordNotFound)
}

func TestProjectRepo_ListStartedBetween(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	r := NewProjectRepo(gdb)

	companyA := &model.Company{Name: "A"}
	companyB := &model.Company{Name: "B"}
	require.NoError(t, NewCompanyRepo(gdb).Create(ctx, companyA))
	require.NoError(t, NewCompanyRepo(gdb).Create(ctx, companyB))

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mk := func(title string, company *model.Company, started *time.Time) *model.Project {
		p := &model.Project{Title: title, CompanyID: &company.ID, StartedAt: started}
		require.NoError(t, r.Create(ctx, p))
		return p
	}
	at := func(d time.Duration) *time.Time { v := base.Add(d); return &v }

	before := mk("before", companyA, at(-time.Hour))
	first := mk("first", companyA, at(0))
	second := mk("second", companyB, at(48*time.Hour))
	mk("boundary", companyA, at(31*24*time.Hour))
	mk("never", companyA, nil)

	from, to := base, base.AddDate(0, 0, 31)
	got, err := r.ListStartedBetween(ctx, from, to, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)

	got, err = r.ListStartedBetween(ctx, from, to, &companyB.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, second.ID, got[0].ID)

	got, err = r.ListStartedBetween(ctx, base.Add(-2*time.Hour), base, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, before.ID, got[0].ID)
}

func TestProjectRepo_ListAndListByIDs(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	r := NewProjectRepo(gdb)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		p := &model.Project{Title: "p", CreatedAt: time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)}
		require.NoError(t, r.Create(ctx, p))
		ids = append(ids, p.ID)
	}

	page, err := r.List(ctx, time.Time{}, uuid.Nil, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	rest, err := r.List(ctx, page[1].CreatedAt, page[1].ID, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, ids[0], rest[0].ID)

	all, err := r.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := r.ListByIDs(ctx, []uuid.UUID{ids[0], ids[2]})
	require.NoError(t, err)
	assert.Len(t, some, 2)
}

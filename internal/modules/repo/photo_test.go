package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"gorm.io/gorm"
)

func TestPhotoRepo_UpdateClearsRelation(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()

	p := &model.Project{Title: "Födém"}
	require.NoError(t, NewProjectRepo(gdb).Create(ctx, p))
	cat := &model.PhotoCategory{Name: "Előtte", Slug: "elotte"}
	require.NoError(t, NewPhotoCategoryRepo(gdb).Create(ctx, cat))

	r := NewPhotoRepo(gdb)
	ph := &model.Photo{ProjectID: &p.ID, CategoryID: &cat.ID, Bucket: "b", S3Key: "k", MIME: "image/png"}
	require.NoError(t, r.Create(ctx, ph))

	got, err := r.Get(ctx, ph.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "elotte", got.Category.Slug)

	require.NoError(t, r.Update(ctx, ph.ID, map[string]interface{}{"category_id": nil, "caption": "after"}))
	got, err = r.Get(ctx, ph.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Equal(t, "after", got.Caption)

	list, err := r.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, r.Update(ctx, uuid.New(), map[string]interface{}{"caption": "x"}), gorm.ErrRecordNotFound)
	assert.NoError(t, r.Update(ctx, ph.ID, nil))
}

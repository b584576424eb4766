package repo

import (
	"context"
	"errors"

	"github.com/szigetelo/backoffice/internal/modules/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsKey builds the namespaced settings key <type>::<name>::<key>.
func SettingsKey(typ, name, key string) string {
	return typ + "::" + name + "::" + key
}

// SettingsRepo is a generic key-value store. Writes overwrite the whole value.
type SettingsRepo interface {
	// Get returns a nil value without error when the key is absent.
	Get(ctx context.Context, key string) (datatypes.JSON, error)
	Set(ctx context.Context, key string, value datatypes.JSON) error
	// SetIfAbsent reports whether the value was written.
	SetIfAbsent(ctx context.Context, key string, value datatypes.JSON) (bool, error)
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepo(db *gorm.DB) SettingsRepo {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context, key string) (datatypes.JSON, error) {
	var e model.SettingsEntry
	err := r.db.WithContext(ctx).Where(&model.SettingsEntry{Key: key}).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e.Value, nil
}

func (r *settingsRepo) Set(ctx context.Context, key string, value datatypes.JSON) error {
	e := model.SettingsEntry{Key: key, Value: value, Tag: "object"}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "tag", "updated_at"}),
	}).Create(&e).Error
}

func (r *settingsRepo) SetIfAbsent(ctx context.Context, key string, value datatypes.JSON) (bool, error) {
	e := model.SettingsEntry{Key: key, Value: value, Tag: "object"}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

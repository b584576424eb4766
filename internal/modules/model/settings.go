package model

import (
	"time"

	"gorm.io/datatypes"
)

// SettingsEntry is one row of the namespaced key-value settings store.
// Keys follow <type>::<name>::<key>, for example plugin::users-permissions::permission_matrix_v3.
type SettingsEntry struct {
	Key       string         `gorm:"type:text;primaryKey" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb" swaggertype:"object" json:"value"`
	Tag       string         `gorm:"type:text" json:"tag"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime;not null" json:"updated_at"`
}

func (SettingsEntry) TableName() string { return "core_store" }

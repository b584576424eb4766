package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/pkg/relation"
	"gorm.io/gorm"
)

type Photo struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  *uuid.UUID `gorm:"type:uuid;index" json:"project_id"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	UploaderID *uuid.UUID `gorm:"type:uuid" json:"uploader_id"`
	Caption    string     `gorm:"type:text" json:"caption"`

	Bucket   string `gorm:"type:text;not null" json:"-"`
	S3Key    string `gorm:"type:text;not null" json:"s3_key"`
	MIME     string `gorm:"type:text;not null" json:"mime"`
	SizeB    int64  `gorm:"not null;default:0" json:"size_b"`
	SHA256   string `gorm:"type:text" json:"sha256"`
	Filename string `gorm:"type:text" json:"filename"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null" json:"updated_at"`

	Project  *Project       `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:SET NULL;" json:"-"`
	Category *PhotoCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:SET NULL;" json:"category,omitempty"`
}

func (Photo) TableName() string { return "photos" }

func (p *Photo) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (p *Photo) ProjectRelation() relation.Ref { return uuidRef(p.ProjectID) }

func (p *Photo) RecordID() string { return p.ID.String() }

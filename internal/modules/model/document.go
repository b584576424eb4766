package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/pkg/relation"
	"gorm.io/gorm"
)

type DocumentType string

const (
	DocumentTypeContract       DocumentType = "contract"
	DocumentTypeContractSigned DocumentType = "contract_signed"
	DocumentTypeOther          DocumentType = "other"
)

type Document struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID *uuid.UUID   `gorm:"type:uuid;index" json:"project_id"`
	Type      DocumentType `gorm:"type:text;not null;default:other" json:"type"`
	Title     string       `gorm:"type:text;not null" json:"title"`

	Bucket string `gorm:"type:text;not null" json:"-"`
	S3Key  string `gorm:"type:text;not null" json:"s3_key"`
	MIME   string `gorm:"type:text;not null" json:"mime"`
	SizeB  int64  `gorm:"not null;default:0" json:"size_b"`
	SHA256 string `gorm:"type:text" json:"sha256"`

	Signed bool `gorm:"not null;default:false" json:"signed"`
	// SourceDocumentID points at the document a signed copy was regenerated from.
	SourceDocumentID *uuid.UUID `gorm:"type:uuid" json:"source_document_id"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null" json:"updated_at"`

	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:SET NULL;" json:"-"`
}

func (Document) TableName() string { return "documents" }

func (d *Document) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

func (d *Document) ProjectRelation() relation.Ref { return uuidRef(d.ProjectID) }

func (d *Document) RecordID() string { return d.ID.String() }

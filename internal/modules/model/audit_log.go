package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AuditActionProjectStarted    = "project_started"
	AuditActionStatusChanged     = "status_changed"
	AuditActionDocumentGenerated = "document_generated"
	AuditActionDocumentSigned    = "document_signed"
	AuditActionPhotoUploaded     = "photo_uploaded"
)

// AuditTimestampLayout renders ISO-8601 with millisecond precision in UTC.
const AuditTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type AuditUser struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// ProjectAuditLogEntry is the wire shape of one audit event.
type ProjectAuditLogEntry struct {
	Action    string         `json:"action"`
	Timestamp string         `json:"timestamp"`
	User      *AuditUser     `json:"user,omitempty"`
	Module    string         `json:"module,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

type ProjectAuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index"`
	Action    string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"column:occurred_at;not null;index"`

	UserEmail    *string `gorm:"type:text"`
	UserUsername *string `gorm:"type:text"`
	Module       string  `gorm:"type:text"`

	Details datatypes.JSONMap `gorm:"type:jsonb"`
}

func (ProjectAuditLog) TableName() string { return "project_audit_logs" }

func (l *ProjectAuditLog) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	return nil
}

func (l *ProjectAuditLog) Entry() ProjectAuditLogEntry {
	e := ProjectAuditLogEntry{
		Action:    l.Action,
		Timestamp: l.Timestamp.UTC().Format(AuditTimestampLayout),
		Module:    l.Module,
	}
	if l.UserEmail != nil {
		e.User = &AuditUser{Email: *l.UserEmail}
		if l.UserUsername != nil {
			e.User.Username = *l.UserUsername
		}
	}
	if len(l.Details) > 0 {
		e.Details = map[string]any(l.Details)
	}
	return e
}

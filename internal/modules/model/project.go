package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusPending             ProjectStatus = "pending"
	ProjectStatusInProgress          ProjectStatus = "in_progress"
	ProjectStatusScheduled           ProjectStatus = "scheduled"
	ProjectStatusExecutionCompleted  ProjectStatus = "execution_completed"
	ProjectStatusReadyForReview      ProjectStatus = "ready_for_review"
	ProjectStatusSentBackForRevision ProjectStatus = "sent_back_for_revision"
	ProjectStatusApproved            ProjectStatus = "approved"
	ProjectStatusCompleted           ProjectStatus = "completed"
	ProjectStatusArchived            ProjectStatus = "archived"
)

var ProjectStatuses = []ProjectStatus{
	ProjectStatusPending,
	ProjectStatusInProgress,
	ProjectStatusScheduled,
	ProjectStatusExecutionCompleted,
	ProjectStatusReadyForReview,
	ProjectStatusSentBackForRevision,
	ProjectStatusApproved,
	ProjectStatusCompleted,
	ProjectStatusArchived,
}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Project struct {
	ID     uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Title  string        `gorm:"type:text;not null" json:"title"`
	Status ProjectStatus `gorm:"type:text;not null;default:pending;index" json:"status"`

	// StartedAt is stamped once, when the first document or photo is attached.
	StartedAt     *time.Time `gorm:"index" json:"started_at"`
	ScheduledDate *time.Time `json:"scheduled_date"`

	CompanyID       *uuid.UUID `gorm:"type:uuid;index" json:"company_id"`
	SubcontractorID *uuid.UUID `gorm:"type:uuid;index" json:"subcontractor_id"`

	ClientName       string  `gorm:"type:text" json:"client_name"`
	ClientBirthPlace *string `gorm:"type:text" json:"client_birth_place"`
	ClientBirthDate  *string `gorm:"type:text" json:"client_birth_date"`
	ClientTaxID      *string `gorm:"type:text" json:"client_tax_id"`
	ClientStreet     *string `gorm:"type:text" json:"client_street"`
	ClientCity       *string `gorm:"type:text" json:"client_city"`
	ClientZip        *string `gorm:"type:text" json:"client_zip"`

	PropertyAddressSame bool    `gorm:"not null;default:false" json:"property_address_same"`
	PropertyStreet      *string `gorm:"type:text" json:"property_street"`
	PropertyCity        *string `gorm:"type:text" json:"property_city"`
	PropertyZip         *string `gorm:"type:text" json:"property_zip"`

	AreaSqm       *float64 `json:"area_sqm"`
	FloorMaterial *string  `gorm:"type:text" json:"floor_material"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null" json:"updated_at"`

	// Project <-> Company
	Company       *Company `gorm:"foreignKey:CompanyID;references:ID;constraint:OnDelete:SET NULL;" json:"company,omitempty"`
	Subcontractor *Company `gorm:"foreignKey:SubcontractorID;references:ID;constraint:OnDelete:SET NULL;" json:"subcontractor,omitempty"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	if p.Status == "" {
		p.Status = ProjectStatusPending
	}
	return nil
}

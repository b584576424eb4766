package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleAdmin         UserRole = "admin"
	UserRoleCompanyAdmin  UserRole = "company_admin"
	UserRoleSubcontractor UserRole = "subcontractor"
	UserRoleWorker        UserRole = "worker"
)

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string     `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Username  string     `gorm:"type:text" json:"username"`
	Role      UserRole   `gorm:"type:text;not null;default:worker" json:"role"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index" json:"company_id"`

	Confirmed bool `gorm:"not null;default:false" json:"confirmed"`
	Blocked   bool `gorm:"not null;default:false" json:"blocked"`

	PasswordHash string `gorm:"type:text" json:"-"`
	// APITokenHMAC indexes the bearer token for lookup; APITokenHash verifies it.
	APITokenHMAC *string `gorm:"type:char(64);uniqueIndex" json:"-"`
	APITokenHash string  `gorm:"type:text" json:"-"`

	InvitedAt *time.Time `json:"invited_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime;not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime;not null" json:"updated_at"`

	Company *Company `gorm:"foreignKey:CompanyID;references:ID;constraint:OnDelete:SET NULL;" json:"company,omitempty"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

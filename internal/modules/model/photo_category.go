package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/pkg/types"
	"gorm.io/gorm"
)

type PhotoCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Slug      string    `gorm:"type:text;index" json:"slug"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null" json:"updated_at"`
}

func (PhotoCategory) TableName() string { return "photo_categories" }

func (c *PhotoCategory) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// PhotoCategoryPatch is a partial update. Slug is only regenerated from Name
// when Slug was absent from the payload.
type PhotoCategoryPatch struct {
	Name      types.Optional[string] `json:"name" swaggertype:"string"`
	Slug      types.Optional[string] `json:"slug" swaggertype:"string"`
	SortOrder types.Optional[int]    `json:"sort_order" swaggertype:"integer"`
}

// Apply copies the present fields onto c. An explicit null slug clears it.
func (p *PhotoCategoryPatch) Apply(c *PhotoCategory) {
	if v, ok := p.Name.Get(); ok {
		c.Name = v
	}
	if p.Slug.Set {
		c.Slug = p.Slug.Value
	}
	if v, ok := p.SortOrder.Get(); ok {
		c.SortOrder = v
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a catalog grouping addressed by a unique slug.
type Category struct {
	ID                uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string            `gorm:"type:text;not null"`
	Slug              string            `gorm:"type:text;not null;uniqueIndex"`
	Description       *string           `gorm:"column:description"`
	Image             *string           `gorm:"column:image"`
	IsActive          bool              `gorm:"column:is_active;not null;default:true"`
	ProductCategories []ProductCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

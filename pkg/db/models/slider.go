package models

import (
	"time"

	"github.com/google/uuid"
)

// Slider is a homepage hero banner.
type Slider struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ImageURL     string    `gorm:"column:image_url;not null"`
	Title        string    `gorm:"type:text;not null"`
	Subtitle     *string   `gorm:"column:subtitle"`
	ButtonText   *string   `gorm:"column:button_text"`
	ButtonLink   *string   `gorm:"column:button_link"`
	TextAlign    string    `gorm:"column:text_align;not null;default:'left'"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

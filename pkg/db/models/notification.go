package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an append-only event record consumed by the admin webhook
// pusher. Payload holds a JSON document serialized to a string.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Type      string    `gorm:"type:text;not null"`
	Title     string    `gorm:"type:text;not null"`
	Message   string    `gorm:"type:text;not null"`
	Payload   string    `gorm:"type:text;not null;default:'{}'"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

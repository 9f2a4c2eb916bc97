package models

import (
	"time"

	"github.com/google/uuid"
)

// Influencer represents the creator side of the platform.
type Influencer struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Handle       string     `gorm:"column:handle;type:text;not null;uniqueIndex"`
	DisplayName  string     `gorm:"column:display_name;type:text;not null"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	LastActiveAt *time.Time `gorm:"column:last_active_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

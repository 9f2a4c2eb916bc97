package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand represents the advertiser side of the platform.
type Brand struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string     `gorm:"column:name;type:text;not null"`
	Website      *string    `gorm:"column:website"`
	ContactEmail string     `gorm:"column:contact_email;type:text;not null;uniqueIndex"`
	LastActiveAt *time.Time `gorm:"column:last_active_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

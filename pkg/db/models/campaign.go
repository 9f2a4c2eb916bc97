package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/brandquill/brandquill-backend/pkg/enums"
)

// Campaign is a brand's collaboration brief that influencers apply to.
type Campaign struct {
	ID                   uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BrandID              uuid.UUID            `gorm:"column:brand_id;type:uuid;not null;index"`
	Title                string               `gorm:"column:title;type:text;not null"`
	Brief                string               `gorm:"column:brief;type:text;not null"`
	Status               enums.CampaignStatus `gorm:"column:status;type:campaign_status;not null;default:'draft'"`
	CompensationAmount   decimal.Decimal      `gorm:"column:compensation_amount;type:numeric(12,2);not null"`
	CompensationCurrency enums.Currency       `gorm:"column:compensation_currency;type:text;not null;default:'USD'"`
	Deliverables         pq.StringArray       `gorm:"column:deliverables;type:text[]"`
	OpenedAt             *time.Time           `gorm:"column:opened_at"`
	ClosedAt             *time.Time           `gorm:"column:closed_at"`
	CreatedAt            time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

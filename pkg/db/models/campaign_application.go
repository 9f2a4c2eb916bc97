package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/brandquill/brandquill-backend/pkg/enums"
)

// CampaignApplication is an influencer's pitch for a campaign. One per
// (campaign, influencer); approval issues the collaboration contract.
type CampaignApplication struct {
	ID           uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID   uuid.UUID               `gorm:"column:campaign_id;type:uuid;not null;uniqueIndex:idx_application_campaign_influencer"`
	InfluencerID uuid.UUID               `gorm:"column:influencer_id;type:uuid;not null;uniqueIndex:idx_application_campaign_influencer"`
	Pitch        string                  `gorm:"column:pitch;type:text;not null"`
	Status       enums.ApplicationStatus `gorm:"column:status;type:application_status;not null;default:'submitted'"`
	DeclineNote  *string                 `gorm:"column:decline_note"`
	ContractID   *uuid.UUID              `gorm:"column:contract_id;type:uuid"`
	DecidedAt    *time.Time              `gorm:"column:decided_at"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/brandquill/brandquill-backend/pkg/types"
)

// Contract is one negotiated agreement between a brand and an influencer for
// one campaign. The identifier triple (campaign, brand, influencer) never
// changes after insert; lifecycle progress lives in the status column plus
// the per-party confirmation/signature pairs.
//
// locked_at is set exactly once, when both parties have confirmed and signed,
// and never clears. superseded_by_id is set at most once, when the brand
// issues a replacement, and never re-points.
type Contract struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID   uuid.UUID            `gorm:"column:campaign_id;type:uuid;not null;index"`
	BrandID      uuid.UUID            `gorm:"column:brand_id;type:uuid;not null;index"`
	InfluencerID uuid.UUID            `gorm:"column:influencer_id;type:uuid;not null;index"`
	Status       enums.ContractStatus `gorm:"column:status;type:contract_status;not null;default:'draft'"`

	BrandConfirmed        bool       `gorm:"column:brand_confirmed;not null;default:false"`
	BrandConfirmedAt      *time.Time `gorm:"column:brand_confirmed_at"`
	InfluencerConfirmed   bool       `gorm:"column:influencer_confirmed;not null;default:false"`
	InfluencerConfirmedAt *time.Time `gorm:"column:influencer_confirmed_at"`

	BrandSigned           bool       `gorm:"column:brand_signed;not null;default:false"`
	BrandSignedAt         *time.Time `gorm:"column:brand_signed_at"`
	BrandSignatureID      *uuid.UUID `gorm:"column:brand_signature_id;type:uuid"`
	InfluencerSigned      bool       `gorm:"column:influencer_signed;not null;default:false"`
	InfluencerSignedAt    *time.Time `gorm:"column:influencer_signed_at"`
	InfluencerSignatureID *uuid.UUID `gorm:"column:influencer_signature_id;type:uuid"`

	InfluencerFields *types.InfluencerFields `gorm:"column:influencer_fields;type:jsonb;serializer:json"`

	CompensationAmount   decimal.Decimal `gorm:"column:compensation_amount;type:numeric(12,2);not null"`
	CompensationCurrency enums.Currency  `gorm:"column:compensation_currency;type:text;not null;default:'USD'"`
	Deliverables         pq.StringArray  `gorm:"column:deliverables;type:text[]"`

	SupersededByID  *uuid.UUID `gorm:"column:superseded_by_id;type:uuid"`
	ResendOfID      *uuid.UUID `gorm:"column:resend_of_id;type:uuid"`
	LockedAt        *time.Time `gorm:"column:locked_at"`
	RejectionReason *string    `gorm:"column:rejection_reason"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// FullyExecuted reports whether both parties have confirmed and signed.
func (c Contract) FullyExecuted() bool {
	return c.BrandConfirmed && c.InfluencerConfirmed && c.BrandSigned && c.InfluencerSigned
}

// Superseded reports whether a replacement contract has been issued.
func (c Contract) Superseded() bool {
	return c.SupersededByID != nil
}

// Locked reports whether the contract has reached its immutable locked state.
func (c Contract) Locked() bool {
	return c.LockedAt != nil
}

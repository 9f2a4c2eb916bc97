package campaigns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
)

// CreateCampaignInput holds the validated payload to create a campaign brief.
type CreateCampaignInput struct {
	Title                string
	Brief                string
	CompensationAmount   decimal.Decimal
	CompensationCurrency enums.Currency
	Deliverables         []string
}

// UpdateCampaignInput holds optional mutation values; nil members keep the
// stored value.
type UpdateCampaignInput struct {
	Title                *string
	Brief                *string
	CompensationAmount   *decimal.Decimal
	CompensationCurrency *enums.Currency
	Deliverables         []string
}

// ListFilters describe the campaign list inputs.
type ListFilters struct {
	Status *enums.CampaignStatus
}

// CampaignDTO is the response projection of a campaign.
type CampaignDTO struct {
	ID                   uuid.UUID            `json:"id"`
	BrandID              uuid.UUID            `json:"brand_id"`
	Title                string               `json:"title"`
	Brief                string               `json:"brief"`
	Status               enums.CampaignStatus `json:"status"`
	CompensationAmount   decimal.Decimal      `json:"compensation_amount"`
	CompensationCurrency enums.Currency       `json:"compensation_currency"`
	Deliverables         []string             `json:"deliverables"`
	OpenedAt             *time.Time           `json:"opened_at,omitempty"`
	ClosedAt             *time.Time           `json:"closed_at,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// CampaignList wraps a campaign page plus the next cursor.
type CampaignList struct {
	Campaigns  []CampaignDTO `json:"campaigns"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func dtoFromModel(c *models.Campaign) *CampaignDTO {
	return &CampaignDTO{
		ID:                   c.ID,
		BrandID:              c.BrandID,
		Title:                c.Title,
		Brief:                c.Brief,
		Status:               c.Status,
		CompensationAmount:   c.CompensationAmount,
		CompensationCurrency: c.CompensationCurrency,
		Deliverables:         c.Deliverables,
		OpenedAt:             c.OpenedAt,
		ClosedAt:             c.ClosedAt,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

func listFromRows(rows []models.Campaign, nextCursor string) *CampaignList {
	out := make([]CampaignDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *dtoFromModel(&rows[i]))
	}
	return &CampaignList{Campaigns: out, NextCursor: nextCursor}
}

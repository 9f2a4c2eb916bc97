package applications

import (
	"time"

	"github.com/google/uuid"

	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
)

// Actor identifies who is reading or deciding an application. Influencer
// actors carry their own id; brand actors carry the member id plus the brand
// they act for.
type Actor struct {
	ID      uuid.UUID
	Party   enums.ContractParty
	BrandID *uuid.UUID
}

// ApplyInput carries an influencer's pitch for an open campaign.
type ApplyInput struct {
	CampaignID uuid.UUID
	Pitch      string
}

// DeclineInput carries the optional note a brand attaches when declining.
type DeclineInput struct {
	Note *string
}

// ListFilters describe the application list inputs.
type ListFilters struct {
	Status     *enums.ApplicationStatus
	CampaignID *uuid.UUID
}

// ApplicationDTO is the response projection of a campaign application.
type ApplicationDTO struct {
	ID           uuid.UUID               `json:"id"`
	CampaignID   uuid.UUID               `json:"campaign_id"`
	InfluencerID uuid.UUID               `json:"influencer_id"`
	Pitch        string                  `json:"pitch"`
	Status       enums.ApplicationStatus `json:"status"`
	DeclineNote  *string                 `json:"decline_note,omitempty"`
	ContractID   *uuid.UUID              `json:"contract_id,omitempty"`
	DecidedAt    *time.Time              `json:"decided_at,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// ApplicationList wraps an application page plus the next cursor.
type ApplicationList struct {
	Applications []ApplicationDTO `json:"applications"`
	NextCursor   string           `json:"next_cursor,omitempty"`
}

func dtoFromModel(a *models.CampaignApplication) *ApplicationDTO {
	return &ApplicationDTO{
		ID:           a.ID,
		CampaignID:   a.CampaignID,
		InfluencerID: a.InfluencerID,
		Pitch:        a.Pitch,
		Status:       a.Status,
		DeclineNote:  a.DeclineNote,
		ContractID:   a.ContractID,
		DecidedAt:    a.DecidedAt,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func listFromRows(rows []models.CampaignApplication, nextCursor string) *ApplicationList {
	out := make([]ApplicationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *dtoFromModel(&rows[i]))
	}
	return &ApplicationList{Applications: out, NextCursor: nextCursor}
}

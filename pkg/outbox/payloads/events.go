package payloads

import (
	"time"

	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/google/uuid"
)

// ContractSentEvent signals a contract became visible to its influencer.
type ContractSentEvent struct {
	ContractID   uuid.UUID  `json:"contract_id"`
	BrandID      uuid.UUID  `json:"brand_id"`
	InfluencerID uuid.UUID  `json:"influencer_id"`
	CampaignID   uuid.UUID  `json:"campaign_id"`
	ResendOfID   *uuid.UUID `json:"resend_of_id,omitempty"`
}

// ContractConfirmedEvent is emitted when a party confirms terms. SentAt is
// the moment this document went out, so consumers can measure how long the
// confirmation took without another lookup.
type ContractConfirmedEvent struct {
	ContractID   uuid.UUID            `json:"contract_id"`
	BrandID      uuid.UUID            `json:"brand_id"`
	InfluencerID uuid.UUID            `json:"influencer_id"`
	CampaignID   uuid.UUID            `json:"campaign_id"`
	Party        enums.ContractParty  `json:"party"`
	Status       enums.ContractStatus `json:"status"`
	SentAt       time.Time            `json:"sent_at"`
}

// ContractFieldsUpdatedEvent is emitted when the influencer edits their details
// between confirmation and signing.
type ContractFieldsUpdatedEvent struct {
	ContractID   uuid.UUID `json:"contract_id"`
	BrandID      uuid.UUID `json:"brand_id"`
	InfluencerID uuid.UUID `json:"influencer_id"`
	CampaignID   uuid.UUID `json:"campaign_id"`
}

// ContractSignedEvent is emitted when a party records their signature.
type ContractSignedEvent struct {
	ContractID       uuid.UUID            `json:"contract_id"`
	BrandID          uuid.UUID            `json:"brand_id"`
	InfluencerID     uuid.UUID            `json:"influencer_id"`
	CampaignID       uuid.UUID            `json:"campaign_id"`
	Party            enums.ContractParty  `json:"party"`
	Status           enums.ContractStatus `json:"status"`
	SignatureImageID uuid.UUID            `json:"signature_image_id"`
	SentAt           time.Time            `json:"sent_at"`
}

// ContractLockedEvent surfaces the terminal lock after both parties
// confirmed and signed.
type ContractLockedEvent struct {
	ContractID   uuid.UUID `json:"contract_id"`
	BrandID      uuid.UUID `json:"brand_id"`
	InfluencerID uuid.UUID `json:"influencer_id"`
	CampaignID   uuid.UUID `json:"campaign_id"`
	LockedAt     time.Time `json:"locked_at"`
	SentAt       time.Time `json:"sent_at"`
}

// ContractRejectedEvent is emitted when a party declines the contract.
type ContractRejectedEvent struct {
	ContractID   uuid.UUID           `json:"contract_id"`
	BrandID      uuid.UUID           `json:"brand_id"`
	InfluencerID uuid.UUID           `json:"influencer_id"`
	CampaignID   uuid.UUID           `json:"campaign_id"`
	Party        enums.ContractParty `json:"party"`
	Reason       string              `json:"reason,omitempty"`
	SentAt       time.Time           `json:"sent_at"`
}

// ContractResentEvent reports that a replacement contract superseded an older
// one. ResendDepth counts the predecessors behind the replacement, and SentAt
// is when the superseded document originally went out.
type ContractResentEvent struct {
	OriginalContractID uuid.UUID `json:"original_contract_id"`
	ContractID         uuid.UUID `json:"contract_id"`
	BrandID            uuid.UUID `json:"brand_id"`
	InfluencerID       uuid.UUID `json:"influencer_id"`
	CampaignID         uuid.UUID `json:"campaign_id"`
	ResendDepth        int       `json:"resend_depth"`
	SentAt             time.Time `json:"sent_at"`
}

// ContractRenderRequestedEvent asks the render collaborator to refresh the
// working document after a successful mutation.
type ContractRenderRequestedEvent struct {
	ContractID   uuid.UUID            `json:"contract_id"`
	BrandID      uuid.UUID            `json:"brand_id"`
	InfluencerID uuid.UUID            `json:"influencer_id"`
	CampaignID   uuid.UUID            `json:"campaign_id"`
	Status       enums.ContractStatus `json:"status"`
}

// ContractReminderDueEvent carries the payload for stale-contract nudges.
type ContractReminderDueEvent struct {
	ContractID   uuid.UUID            `json:"contract_id"`
	BrandID      uuid.UUID            `json:"brand_id"`
	InfluencerID uuid.UUID            `json:"influencer_id"`
	CampaignID   uuid.UUID            `json:"campaign_id"`
	Status       enums.ContractStatus `json:"status"`
	PendingHours int                  `json:"pending_hours"`
}

// ApplicationSubmittedEvent signals an influencer applied to a campaign.
type ApplicationSubmittedEvent struct {
	ApplicationID uuid.UUID `json:"application_id"`
	CampaignID    uuid.UUID `json:"campaign_id"`
	BrandID       uuid.UUID `json:"brand_id"`
	InfluencerID  uuid.UUID `json:"influencer_id"`
}

// ApplicationApprovedEvent is emitted with the contract issued on approval.
type ApplicationApprovedEvent struct {
	ApplicationID uuid.UUID `json:"application_id"`
	CampaignID    uuid.UUID `json:"campaign_id"`
	BrandID       uuid.UUID `json:"brand_id"`
	InfluencerID  uuid.UUID `json:"influencer_id"`
	ContractID    uuid.UUID `json:"contract_id"`
}

// ApplicationDeclinedEvent is emitted when a brand declines an application.
type ApplicationDeclinedEvent struct {
	ApplicationID uuid.UUID `json:"application_id"`
	CampaignID    uuid.UUID `json:"campaign_id"`
	BrandID       uuid.UUID `json:"brand_id"`
	InfluencerID  uuid.UUID `json:"influencer_id"`
	Reason        string    `json:"reason,omitempty"`
}

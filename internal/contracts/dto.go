package contracts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/brandquill/brandquill-backend/pkg/types"
)

// Actor identifies who is issuing an intent. Influencer actors carry their
// own id; brand actors carry the member id plus the brand they act for.
type Actor struct {
	ID      uuid.UUID
	Party   enums.ContractParty
	BrandID *uuid.UUID
}

// ConfirmInput carries an influencer confirmation with the full party-fields
// document.
type ConfirmInput struct {
	ContractID uuid.UUID
	Actor      Actor
	Fields     types.InfluencerFields
}

// UpdateInput carries a field-only revision of an already confirmed contract.
type UpdateInput struct {
	ContractID uuid.UUID
	Actor      Actor
	Fields     types.InfluencerFields
}

// SignInput carries a signature image for either party.
type SignInput struct {
	ContractID uuid.UUID
	Actor      Actor
	Image      []byte
}

// RejectInput carries an influencer rejection with an optional reason.
type RejectInput struct {
	ContractID uuid.UUID
	Actor      Actor
	Reason     *string
}

// BrandConfirmInput carries a brand-side confirmation.
type BrandConfirmInput struct {
	ContractID uuid.UUID
	Actor      Actor
}

// TermsPatch holds the optional term changes a brand applies when resending.
// Nil members keep the superseded contract's value.
type TermsPatch struct {
	CompensationAmount   *decimal.Decimal
	CompensationCurrency *enums.Currency
	Deliverables         []string
}

// ResendInput carries a brand's request to issue a replacement contract.
type ResendInput struct {
	ContractID uuid.UUID
	Actor      Actor
	Terms      *TermsPatch
}

// ListFilters describe the inputs supported by the contract lists.
type ListFilters struct {
	Status            *enums.ContractStatus
	CampaignID        *uuid.UUID
	IncludeSuperseded bool
}

// PartyState groups one side's confirmation and signature milestones.
type PartyState struct {
	Confirmed   bool       `json:"confirmed"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	Signed      bool       `json:"signed"`
	SignedAt    *time.Time `json:"signed_at,omitempty"`
	SignatureID *uuid.UUID `json:"signature_id,omitempty"`
}

// ContractDetail is the full document body returned inside a ContractView.
type ContractDetail struct {
	ID                   uuid.UUID               `json:"id"`
	CampaignID           uuid.UUID               `json:"campaign_id"`
	BrandID              uuid.UUID               `json:"brand_id"`
	InfluencerID         uuid.UUID               `json:"influencer_id"`
	Status               enums.ContractStatus    `json:"status"`
	Brand                PartyState              `json:"brand"`
	Influencer           PartyState              `json:"influencer"`
	InfluencerFields     *types.InfluencerFields `json:"influencer_fields,omitempty"`
	CompensationAmount   decimal.Decimal         `json:"compensation_amount"`
	CompensationCurrency enums.Currency          `json:"compensation_currency"`
	Deliverables         []string                `json:"deliverables"`
	SupersededByID       *uuid.UUID              `json:"superseded_by_id,omitempty"`
	ResendOfID           *uuid.UUID              `json:"resend_of_id,omitempty"`
	LockedAt             *time.Time              `json:"locked_at,omitempty"`
	RejectionReason      *string                 `json:"rejection_reason,omitempty"`
	Flags                Flags                   `json:"flags"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
}

// ContractView is the uniform read and mutation response. RequestedID echoes
// what the caller asked for; EffectiveID is the document the chain resolved
// to, so redirected callers can see the newer version was substituted. In
// degraded mode Contract is nil and only the ids survive.
type ContractView struct {
	RequestedID uuid.UUID       `json:"requested_id"`
	EffectiveID uuid.UUID       `json:"effective_id"`
	ChainDepth  int             `json:"chain_depth"`
	Degraded    bool            `json:"degraded,omitempty"`
	Contract    *ContractDetail `json:"contract,omitempty"`
}

// ContractSummary exposes the list-view projection of a contract.
type ContractSummary struct {
	ID                   uuid.UUID            `json:"id"`
	CampaignID           uuid.UUID            `json:"campaign_id"`
	BrandID              uuid.UUID            `json:"brand_id"`
	InfluencerID         uuid.UUID            `json:"influencer_id"`
	Status               enums.ContractStatus `json:"status"`
	CompensationAmount   decimal.Decimal      `json:"compensation_amount"`
	CompensationCurrency enums.Currency       `json:"compensation_currency"`
	Superseded           bool                 `json:"superseded"`
	Locked               bool                 `json:"locked"`
	Flags                Flags                `json:"flags"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// ContractList wraps the paginated contracts plus the next page cursor.
type ContractList struct {
	Contracts  []ContractSummary `json:"contracts"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// SignatureImageView carries a stored signature bitmap for download. Data is
// served as the raw response body, never inside the JSON envelope.
type SignatureImageView struct {
	ID         uuid.UUID           `json:"id"`
	ContractID uuid.UUID           `json:"contract_id"`
	Party      enums.ContractParty `json:"party"`
	MimeType   string              `json:"mime_type"`
	ByteSize   int                 `json:"byte_size"`
	Data       []byte              `json:"-"`
	CreatedAt  time.Time           `json:"created_at"`
}

// ContractPage is the raw repository page before flags are computed. The
// service projects it into a ContractList through the flag policy.
type ContractPage struct {
	Rows       []models.Contract
	NextCursor string
}

// detailFromModel projects the row into the response shape with the supplied
// flags already clamped.
func detailFromModel(c *models.Contract, flags Flags) *ContractDetail {
	return &ContractDetail{
		ID:           c.ID,
		CampaignID:   c.CampaignID,
		BrandID:      c.BrandID,
		InfluencerID: c.InfluencerID,
		Status:       c.Status,
		Brand: PartyState{
			Confirmed:   c.BrandConfirmed,
			ConfirmedAt: c.BrandConfirmedAt,
			Signed:      c.BrandSigned,
			SignedAt:    c.BrandSignedAt,
			SignatureID: c.BrandSignatureID,
		},
		Influencer: PartyState{
			Confirmed:   c.InfluencerConfirmed,
			ConfirmedAt: c.InfluencerConfirmedAt,
			Signed:      c.InfluencerSigned,
			SignedAt:    c.InfluencerSignedAt,
			SignatureID: c.InfluencerSignatureID,
		},
		InfluencerFields:     c.InfluencerFields,
		CompensationAmount:   c.CompensationAmount,
		CompensationCurrency: c.CompensationCurrency,
		Deliverables:         []string(c.Deliverables),
		SupersededByID:       c.SupersededByID,
		ResendOfID:           c.ResendOfID,
		LockedAt:             c.LockedAt,
		RejectionReason:      c.RejectionReason,
		Flags:                flags,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

func signatureViewFromModel(img *models.SignatureImage) *SignatureImageView {
	return &SignatureImageView{
		ID:         img.ID,
		ContractID: img.ContractID,
		Party:      img.Party,
		MimeType:   img.MimeType,
		ByteSize:   img.ByteSize,
		Data:       img.Data,
		CreatedAt:  img.CreatedAt,
	}
}

// summaryFromModel projects the row into the list shape.
func summaryFromModel(c *models.Contract, flags Flags) ContractSummary {
	return ContractSummary{
		ID:                   c.ID,
		CampaignID:           c.CampaignID,
		BrandID:              c.BrandID,
		InfluencerID:         c.InfluencerID,
		Status:               c.Status,
		CompensationAmount:   c.CompensationAmount,
		CompensationCurrency: c.CompensationCurrency,
		Superseded:           c.Superseded(),
		Locked:               c.Locked(),
		Flags:                flags,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

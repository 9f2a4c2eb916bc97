package router

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brandquill/brandquill-backend/internal/analytics/types"
	analyticswriter "github.com/brandquill/brandquill-backend/internal/analytics/writer"
)

// funnelIDs carries the identifier columns shared by every funnel row. Zero
// ids stay NULL in BigQuery, so an application row simply has no contract id.
type funnelIDs struct {
	ContractID    uuid.UUID
	ApplicationID uuid.UUID
	CampaignID    uuid.UUID
	BrandID       uuid.UUID
	InfluencerID  uuid.UUID
}

func buildFunnelRow(envelope types.Envelope, occurred time.Time, ids funnelIDs, payload any) (types.ContractFunnelRow, error) {
	if occurred.IsZero() {
		occurred = envelope.OccurredAt
	}

	payloadJSON, err := analyticswriter.EncodeJSON(payload)
	if err != nil {
		return types.ContractFunnelRow{}, fmt.Errorf("encode payload json: %w", err)
	}

	return types.ContractFunnelRow{
		EventID:       envelope.EventID,
		EventType:     string(envelope.EventType),
		OccurredAt:    occurred.UTC(),
		ContractID:    uuidPtr(ids.ContractID),
		ApplicationID: uuidPtr(ids.ApplicationID),
		CampaignID:    uuidPtr(ids.CampaignID),
		BrandID:       uuidPtr(ids.BrandID),
		InfluencerID:  uuidPtr(ids.InfluencerID),
		Payload:       payloadJSON,
	}, nil
}

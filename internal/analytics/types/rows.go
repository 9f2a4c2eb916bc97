package types

import (
	"time"

	cbigquery "cloud.google.com/go/bigquery"
)

// ContractFunnelRow mirrors the contract_funnel_events BigQuery schema. One
// row is appended per lifecycle event; funnel queries group them by contract
// and stage. Columns that an event cannot know (an application has no
// contract yet, a sent event has no elapsed time) stay NULL.
type ContractFunnelRow struct {
	EventID        string             `bigquery:"event_id"`
	EventType      string             `bigquery:"event_type"`
	OccurredAt     time.Time          `bigquery:"occurred_at"`
	ContractID     *string            `bigquery:"contract_id"`
	ApplicationID  *string            `bigquery:"application_id"`
	CampaignID     *string            `bigquery:"campaign_id"`
	BrandID        *string            `bigquery:"brand_id"`
	InfluencerID   *string            `bigquery:"influencer_id"`
	Party          *string            `bigquery:"party"`
	Reason         *string            `bigquery:"reason"`
	ResendDepth    *int64             `bigquery:"resend_depth"`
	HoursSinceSent *float64           `bigquery:"hours_since_sent"`
	Payload        cbigquery.NullJSON `bigquery:"payload"`
}

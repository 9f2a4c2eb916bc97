package types

import (
	"time"

	"github.com/google/uuid"
)

// FunnelQueryRequest carries the input parameters for brand funnel queries.
type FunnelQueryRequest struct {
	BrandID uuid.UUID
	Start   time.Time
	End     time.Time
}

// TimeSeriesPoint describes a single date/value pair returned by the query service.
type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// StageCount is the number of contracts that reached a funnel stage.
type StageCount struct {
	Stage string `json:"stage"`
	Count int64  `json:"count"`
}

// LabelValue represents a top-N entry such as a campaign.
type LabelValue struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// FunnelQueryResponse wraps the acceptance KPIs for the brand dashboard.
type FunnelQueryResponse struct {
	Stages         []StageCount      `json:"stages"`
	SentSeries     []TimeSeriesPoint `json:"sent"`
	LockedSeries   []TimeSeriesPoint `json:"locked"`
	TopCampaigns   []LabelValue      `json:"top_campaigns"`
	AvgHoursToLock float64           `json:"avg_hours_to_lock"`
	ResendRate     float64           `json:"resend_rate"`
}

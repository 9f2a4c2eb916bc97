package query

import (
	"context"
	"fmt"

	cloudbigquery "cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/brandquill/brandquill-backend/internal/analytics/types"
	"github.com/brandquill/brandquill-backend/pkg/bigquery"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
)

const (
	stageCountsSQL = `
SELECT
  event_type AS stage,
  COUNT(DISTINCT COALESCE(contract_id, application_id)) AS value
FROM %s
WHERE brand_id = @brandID
  AND occurred_at BETWEEN @start AND @end
GROUP BY stage
`

	dailyStageSQL = `
SELECT
  FORMAT_DATE('%%F', DATE_TRUNC(occurred_at, DAY)) AS day,
  COUNT(DISTINCT contract_id) AS value
FROM %s
WHERE brand_id = @brandID
  AND event_type = '%s'
  AND occurred_at BETWEEN @start AND @end
GROUP BY day
ORDER BY day ASC
`

	topCampaignsSQL = `
SELECT campaign_id AS label, COUNT(DISTINCT contract_id) AS value
FROM %s
WHERE brand_id = @brandID
  AND event_type = 'contract_locked'
  AND campaign_id IS NOT NULL
  AND occurred_at BETWEEN @start AND @end
GROUP BY campaign_id
ORDER BY value DESC
LIMIT 5
`

	avgHoursToLockSQL = `
SELECT AVG(hours_since_sent) AS value
FROM %s
WHERE brand_id = @brandID
  AND event_type = 'contract_locked'
  AND hours_since_sent IS NOT NULL
  AND occurred_at BETWEEN @start AND @end
`

	resendRateSQL = `
SELECT SAFE_DIVIDE(
  COUNT(DISTINCT IF(event_type = 'contract_resent', contract_id, NULL)),
  NULLIF(COUNT(DISTINCT IF(event_type IN ('contract_sent', 'contract_resent'), contract_id, NULL)), 0)
) AS value
FROM %s
WHERE brand_id = @brandID
  AND occurred_at BETWEEN @start AND @end
`
)

// funnelStageOrder fixes the dashboard ordering; stages the window never saw
// still appear with a zero count so the funnel reads top to bottom.
var funnelStageOrder = []enums.AnalyticsEventType{
	enums.AnalyticsEventApplicationSubmitted,
	enums.AnalyticsEventApplicationApproved,
	enums.AnalyticsEventContractSent,
	enums.AnalyticsEventContractConfirmed,
	enums.AnalyticsEventContractSigned,
	enums.AnalyticsEventContractLocked,
	enums.AnalyticsEventContractRejected,
	enums.AnalyticsEventContractResent,
}

// FunnelService provides acceptance-funnel data from BigQuery contract_funnel_events.
type FunnelService interface {
	Query(ctx context.Context, req types.FunnelQueryRequest) (*types.FunnelQueryResponse, error)
}

type funnelService struct {
	client   *bigquery.Client
	tableRef string
}

// NewFunnelService builds a service backed by BigQuery.
func NewFunnelService(client *bigquery.Client, project, dataset, table string) (FunnelService, error) {
	if client == nil {
		return nil, fmt.Errorf("bigquery client required")
	}
	if project == "" || dataset == "" || table == "" {
		return nil, fmt.Errorf("project, dataset, and table are required")
	}
	return &funnelService{
		client:   client,
		tableRef: fmt.Sprintf("`%s.%s.%s`", project, dataset, table),
	}, nil
}

func (s *funnelService) Query(ctx context.Context, req types.FunnelQueryRequest) (*types.FunnelQueryResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	params := s.baseParams(req)

	stages, err := s.queryStageCounts(ctx, fmt.Sprintf(stageCountsSQL, s.tableRef), params)
	if err != nil {
		return nil, err
	}

	sentSeries, err := s.querySeries(ctx, fmt.Sprintf(dailyStageSQL, s.tableRef, enums.AnalyticsEventContractSent), params)
	if err != nil {
		return nil, err
	}
	lockedSeries, err := s.querySeries(ctx, fmt.Sprintf(dailyStageSQL, s.tableRef, enums.AnalyticsEventContractLocked), params)
	if err != nil {
		return nil, err
	}

	topCampaigns, err := s.queryTopLabels(ctx, fmt.Sprintf(topCampaignsSQL, s.tableRef), params)
	if err != nil {
		return nil, err
	}

	avgHours, err := s.querySingleFloat(ctx, fmt.Sprintf(avgHoursToLockSQL, s.tableRef), params)
	if err != nil {
		return nil, err
	}
	resendRate, err := s.querySingleFloat(ctx, fmt.Sprintf(resendRateSQL, s.tableRef), params)
	if err != nil {
		return nil, err
	}

	return &types.FunnelQueryResponse{
		Stages:         stages,
		SentSeries:     sentSeries,
		LockedSeries:   lockedSeries,
		TopCampaigns:   topCampaigns,
		AvgHoursToLock: avgHours,
		ResendRate:     resendRate,
	}, nil
}

func validateRequest(req types.FunnelQueryRequest) error {
	if req.BrandID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "brand id required")
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end are required")
	}
	if req.End.Before(req.Start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end must be after start")
	}
	return nil
}

func (s *funnelService) baseParams(req types.FunnelQueryRequest) []cloudbigquery.QueryParameter {
	return []cloudbigquery.QueryParameter{
		{Name: "brandID", Value: req.BrandID.String()},
		{Name: "start", Value: req.Start},
		{Name: "end", Value: req.End},
	}
}

func (s *funnelService) queryStageCounts(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) ([]types.StageCount, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return nil, fmt.Errorf("query stage counts: %w", err)
	}

	counts := make(map[string]int64, len(funnelStageOrder))
	for {
		var row struct {
			Stage string `bigquery:"stage"`
			Value int64  `bigquery:"value"`
		}
		if err := iter.Next(&row); err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("reading stage row: %w", err)
		}
		counts[row.Stage] = row.Value
	}

	stages := make([]types.StageCount, 0, len(funnelStageOrder))
	for _, stage := range funnelStageOrder {
		stages = append(stages, types.StageCount{Stage: string(stage), Count: counts[string(stage)]})
	}
	return stages, nil
}

func (s *funnelService) querySeries(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) ([]types.TimeSeriesPoint, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}

	var points []types.TimeSeriesPoint
	for {
		var row struct {
			Day   string `bigquery:"day"`
			Value int64  `bigquery:"value"`
		}
		if err := iter.Next(&row); err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("reading series row: %w", err)
		}
		points = append(points, types.TimeSeriesPoint{Date: row.Day, Value: row.Value})
	}
	return points, nil
}

func (s *funnelService) queryTopLabels(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) ([]types.LabelValue, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return nil, fmt.Errorf("query top labels: %w", err)
	}

	var result []types.LabelValue
	for {
		var row struct {
			Label string `bigquery:"label"`
			Value int64  `bigquery:"value"`
		}
		if err := iter.Next(&row); err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("reading top label row: %w", err)
		}
		result = append(result, types.LabelValue{Label: row.Label, Value: row.Value})
	}
	return result, nil
}

func (s *funnelService) querySingleFloat(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) (float64, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return 0, fmt.Errorf("query single value: %w", err)
	}
	var row struct {
		Value cloudbigquery.NullFloat64 `bigquery:"value"`
	}
	if err := iter.Next(&row); err != nil {
		if err == iterator.Done {
			return 0, nil
		}
		return 0, fmt.Errorf("reading single value row: %w", err)
	}
	if !row.Value.Valid {
		return 0, nil
	}
	return row.Value.Float64, nil
}

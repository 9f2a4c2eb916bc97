package analytics

import (
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
)

// maxFunnelRange caps explicit ranges; BigQuery scans are billed by bytes
// read and the funnel table is partitioned by day.
const maxFunnelRange = 366 * 24 * time.Hour

var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

// resolveAnalyticsRange reads the query window: either an explicit
// from/to RFC3339 pair or a named preset (7d/30d/90d, default 30d).
func resolveAnalyticsRange(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	query := r.URL.Query()
	from := strings.TrimSpace(query.Get("from"))
	to := strings.TrimSpace(query.Get("to"))

	if from != "" || to != "" {
		return parseExplicitRange(from, to)
	}

	duration, ok := presetDuration(strings.TrimSpace(query.Get("preset")))
	if !ok {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid preset")
	}
	return now.Add(-duration), now, nil
}

func parseExplicitRange(from, to string) (time.Time, time.Time, error) {
	if from == "" || to == "" {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "from and to must be provided together")
	}

	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid from timestamp")
	}
	end, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid to timestamp")
	}

	start, end = start.UTC(), end.UTC()
	if end.Before(start) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "end must be after start")
	}
	if end.Sub(start) > maxFunnelRange {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "range must not exceed one year")
	}
	return start, end, nil
}

func presetDuration(value string) (time.Duration, bool) {
	if value == "" {
		value = "30d"
	}
	switch strings.ToLower(value) {
	case "7d":
		return 7 * 24 * time.Hour, true
	case "30d":
		return 30 * 24 * time.Hour, true
	case "90d":
		return 90 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

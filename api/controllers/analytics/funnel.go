package analytics

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/brandquill/brandquill-backend/api/middleware"
	"github.com/brandquill/brandquill-backend/api/responses"
	"github.com/brandquill/brandquill-backend/internal/analytics"
	"github.com/brandquill/brandquill-backend/internal/analytics/types"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/logger"
)

// BrandFunnel returns the brand's acceptance-funnel KPIs over the requested
// window: sent through locked stage counts, conversion rate, time-to-lock
// percentiles, and the daily sent/locked series.
func BrandFunnel(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if service == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		brandID, err := uuid.Parse(middleware.BrandIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "brand missing from context"))
			return
		}

		start, end, err := resolveAnalyticsRange(r, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.Query(ctx, types.FunnelQueryRequest{
			BrandID: brandID,
			Start:   start,
			End:     end,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

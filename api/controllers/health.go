package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/brandquill/brandquill-backend/api/responses"
	"github.com/brandquill/brandquill-backend/pkg/bigquery"
	"github.com/brandquill/brandquill-backend/pkg/config"
	"github.com/brandquill/brandquill-backend/pkg/db"
	"github.com/brandquill/brandquill-backend/pkg/logger"
	"github.com/brandquill/brandquill-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

// HealthLive reports process liveness; it never touches dependencies so the
// orchestrator can distinguish a wedged process from a degraded one.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BrandQuill-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the stateful dependencies and reports per-dependency
// status. Any failed ping flips the response to 503 so load balancers stop
// routing before requests start erroring.
func HealthReady(cfg *config.Config, logg *logger.Logger, database db.Pinger, cache redis.Pinger, warehouse bigquery.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		check := func(name string, ping func(context.Context) error) {
			if err := ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "readiness.ping_failed", err)
				}
				return
			}
			checks[name] = "up"
		}

		if database != nil {
			check("postgres", database.Ping)
		} else {
			checks["postgres"] = "skipped"
		}
		if cache != nil {
			check("redis", cache.Ping)
		} else {
			checks["redis"] = "skipped"
		}
		if warehouse != nil {
			check("bigquery", warehouse.Ping)
		} else {
			checks["bigquery"] = "skipped"
		}

		w.Header().Set("X-BrandQuill-Env", cfg.App.Env)

		status := "ready"
		httpStatus := http.StatusOK
		if !healthy {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, httpStatus, map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}

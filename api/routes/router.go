package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brandquill/brandquill-backend/api/controllers"
	analyticscontrollers "github.com/brandquill/brandquill-backend/api/controllers/analytics"
	applicationcontrollers "github.com/brandquill/brandquill-backend/api/controllers/applications"
	campaigncontrollers "github.com/brandquill/brandquill-backend/api/controllers/campaigns"
	contractcontrollers "github.com/brandquill/brandquill-backend/api/controllers/contracts"
	"github.com/brandquill/brandquill-backend/api/middleware"
	"github.com/brandquill/brandquill-backend/internal/analytics"
	"github.com/brandquill/brandquill-backend/internal/applications"
	"github.com/brandquill/brandquill-backend/internal/campaigns"
	"github.com/brandquill/brandquill-backend/internal/contracts"
	"github.com/brandquill/brandquill-backend/internal/notifications"
	"github.com/brandquill/brandquill-backend/pkg/bigquery"
	"github.com/brandquill/brandquill-backend/pkg/config"
	"github.com/brandquill/brandquill-backend/pkg/db"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/brandquill/brandquill-backend/pkg/logger"
	"github.com/brandquill/brandquill-backend/pkg/metrics"
	"github.com/brandquill/brandquill-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. The API binary builds one
// of these at startup; tests build one with stubs for the slice they poke.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	BigQuery bigquery.Pinger

	MetricsRegistry *prometheus.Registry
	HTTPMetrics     *metrics.HTTPMetrics

	Contracts     contracts.Service
	Campaigns     campaigns.Service
	Applications  applications.Service
	Notifications notifications.Service
	Analytics     analytics.Service
}

// NewRouter assembles the full route tree: public health and metrics, then
// the authenticated influencer and brand surfaces under /api/v1.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	// A nil *redis.Client must not reach the Pinger interface, or the nil
	// check inside the readiness handler stops working.
	var redisPinger redis.Pinger
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/readyz", controllers.HealthReady(cfg, logg, deps.DB, redisPinger, deps.BigQuery))
	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		if deps.Redis != nil {
			r.Use(middleware.Idempotency(deps.Redis, logg))
		}

		// Notifications serve both parties; the recipient comes from the
		// token, not the route.
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Get("/unread-count", controllers.CountUnreadNotifications(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireParty(enums.ContractPartyInfluencer, logg))

			r.Route("/contracts", func(r chi.Router) {
				r.Get("/", contractcontrollers.List(deps.Contracts, logg))
				r.Get("/{contractId}", contractcontrollers.Detail(deps.Contracts, logg))
				r.Post("/{contractId}/confirm", contractcontrollers.Confirm(deps.Contracts, logg))
				r.Put("/{contractId}/fields", contractcontrollers.UpdateFields(deps.Contracts, logg))
				r.Post("/{contractId}/sign", contractcontrollers.Sign(deps.Contracts, logg))
				r.Post("/{contractId}/reject", contractcontrollers.Reject(deps.Contracts, logg))
				r.Get("/{contractId}/signatures/{signatureId}", contractcontrollers.SignatureImage(deps.Contracts, logg))
			})

			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", campaigncontrollers.ListOpen(deps.Campaigns, logg))
				r.Get("/{campaignId}", campaigncontrollers.Detail(deps.Campaigns, logg))
				r.Post("/{campaignId}/applications", applicationcontrollers.Apply(deps.Applications, logg))
			})

			r.Route("/applications", func(r chi.Router) {
				r.Get("/", applicationcontrollers.List(deps.Applications, logg))
				r.Get("/{applicationId}", applicationcontrollers.Detail(deps.Applications, logg))
			})
		})

		r.Route("/brand", func(r chi.Router) {
			r.Use(middleware.RequireParty(enums.ContractPartyBrand, logg))

			r.Route("/contracts", func(r chi.Router) {
				r.Get("/", contractcontrollers.BrandList(deps.Contracts, logg))
				r.Get("/{contractId}", contractcontrollers.BrandDetail(deps.Contracts, logg))
				r.Post("/{contractId}/confirm", contractcontrollers.BrandConfirm(deps.Contracts, logg))
				r.Post("/{contractId}/sign", contractcontrollers.BrandSign(deps.Contracts, logg))
				r.Post("/{contractId}/resend", contractcontrollers.Resend(deps.Contracts, logg))
				r.Get("/{contractId}/signatures/{signatureId}", contractcontrollers.BrandSignatureImage(deps.Contracts, logg))
			})

			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", campaigncontrollers.BrandList(deps.Campaigns, logg))
				r.Post("/", campaigncontrollers.Create(deps.Campaigns, logg))
				r.Get("/{campaignId}", campaigncontrollers.BrandDetail(deps.Campaigns, logg))
				r.Patch("/{campaignId}", campaigncontrollers.Update(deps.Campaigns, logg))
				r.Post("/{campaignId}/open", campaigncontrollers.Open(deps.Campaigns, logg))
				r.Post("/{campaignId}/close", campaigncontrollers.Close(deps.Campaigns, logg))
			})

			r.Route("/applications", func(r chi.Router) {
				r.Get("/", applicationcontrollers.BrandList(deps.Applications, logg))
				r.Get("/{applicationId}", applicationcontrollers.BrandDetail(deps.Applications, logg))
				r.Post("/{applicationId}/approve", applicationcontrollers.Approve(deps.Applications, logg))
				r.Post("/{applicationId}/decline", applicationcontrollers.Decline(deps.Applications, logg))
			})

			r.Get("/analytics/funnel", analyticscontrollers.BrandFunnel(deps.Analytics, logg))
		})
	})

	return r
}

package campaigns

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brandquill/brandquill-backend/api/middleware"
	"github.com/brandquill/brandquill-backend/api/responses"
	"github.com/brandquill/brandquill-backend/api/validators"
	internalcampaigns "github.com/brandquill/brandquill-backend/internal/campaigns"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/logger"
)

type createCampaignRequest struct {
	Title                string          `json:"title" validate:"required,max=200"`
	Brief                string          `json:"brief" validate:"required,max=10000"`
	CompensationAmount   decimal.Decimal `json:"compensation_amount" validate:"required"`
	CompensationCurrency string          `json:"compensation_currency" validate:"required"`
	Deliverables         []string        `json:"deliverables" validate:"required,min=1,max=50,dive,min=1,max=500"`
}

type updateCampaignRequest struct {
	Title                *string          `json:"title,omitempty" validate:"omitempty,max=200"`
	Brief                *string          `json:"brief,omitempty" validate:"omitempty,max=10000"`
	CompensationAmount   *decimal.Decimal `json:"compensation_amount,omitempty"`
	CompensationCurrency *string          `json:"compensation_currency,omitempty"`
	Deliverables         []string         `json:"deliverables,omitempty" validate:"omitempty,max=50,dive,min=1,max=500"`
}

func brandIDFromRequest(r *http.Request) (uuid.UUID, error) {
	brandID, err := uuid.Parse(middleware.BrandIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "brand missing from context")
	}
	return brandID, nil
}

// Create registers a draft campaign brief for the brand.
func Create(svc internalcampaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		brandID, err := brandIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createCampaignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		currency, err := enums.ParseCurrency(body.CompensationCurrency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid compensation currency"))
			return
		}

		campaign, err := svc.Create(r.Context(), brandID, internalcampaigns.CreateCampaignInput{
			Title:                validators.SanitizeString(body.Title, 0),
			Brief:                validators.SanitizeString(body.Brief, 0),
			CompensationAmount:   body.CompensationAmount,
			CompensationCurrency: currency,
			Deliverables:         body.Deliverables,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, campaign)
	}
}

// Update edits a draft or open campaign; closed campaigns are immutable.
func Update(svc internalcampaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		brandID, err := brandIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		campaignID, err := parseCampaignID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCampaignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := internalcampaigns.UpdateCampaignInput{
			Title:              body.Title,
			Brief:              body.Brief,
			CompensationAmount: body.CompensationAmount,
			Deliverables:       body.Deliverables,
		}
		if body.Title != nil {
			title := validators.SanitizeString(*body.Title, 0)
			input.Title = &title
		}
		if body.Brief != nil {
			brief := validators.SanitizeString(*body.Brief, 0)
			input.Brief = &brief
		}
		if body.CompensationCurrency != nil {
			currency, err := enums.ParseCurrency(*body.CompensationCurrency)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid compensation currency"))
				return
			}
			input.CompensationCurrency = &currency
		}

		campaign, err := svc.Update(r.Context(), brandID, campaignID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, campaign)
	}
}

// Open transitions a draft campaign to accepting applications.
func Open(svc internalcampaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		brandID, err := brandIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		campaignID, err := parseCampaignID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaign, err := svc.Open(r.Context(), brandID, campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, campaign)
	}
}

// Close stops a campaign from accepting new applications. Existing
// contracts are untouched.
func Close(svc internalcampaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		brandID, err := brandIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		campaignID, err := parseCampaignID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaign, err := svc.Close(r.Context(), brandID, campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, campaign)
	}
}

// BrandList pages through the brand's own campaigns in every status.
func BrandList(svc internalcampaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		brandID, err := brandIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := listParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := internalcampaigns.ListFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseCampaignStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}

		list, err := svc.ListForBrand(r.Context(), brandID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// BrandDetail returns one of the brand's campaigns regardless of status.
func BrandDetail(svc internalcampaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		brandID, err := brandIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		campaignID, err := parseCampaignID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaign, err := svc.Get(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if campaign.BrandID != brandID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found"))
			return
		}
		responses.WriteSuccess(w, campaign)
	}
}

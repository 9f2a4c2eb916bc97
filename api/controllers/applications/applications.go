package applications

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brandquill/brandquill-backend/api/middleware"
	"github.com/brandquill/brandquill-backend/api/responses"
	"github.com/brandquill/brandquill-backend/api/validators"
	internalapplications "github.com/brandquill/brandquill-backend/internal/applications"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/logger"
	"github.com/brandquill/brandquill-backend/pkg/pagination"
)

type applyRequest struct {
	Pitch string `json:"pitch" validate:"required,max=5000"`
}

type declineRequest struct {
	Note *string `json:"note,omitempty" validate:"omitempty,max=2000"`
}

func influencerActor(r *http.Request) (internalapplications.Actor, error) {
	actorID, err := uuid.Parse(middleware.ActorIDFromContext(r.Context()))
	if err != nil {
		return internalapplications.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor missing from context")
	}
	return internalapplications.Actor{ID: actorID, Party: enums.ContractPartyInfluencer}, nil
}

func brandActor(r *http.Request) (internalapplications.Actor, error) {
	actorID, err := uuid.Parse(middleware.ActorIDFromContext(r.Context()))
	if err != nil {
		return internalapplications.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor missing from context")
	}
	brandID, err := uuid.Parse(middleware.BrandIDFromContext(r.Context()))
	if err != nil {
		return internalapplications.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "brand missing from context")
	}
	return internalapplications.Actor{ID: actorID, Party: enums.ContractPartyBrand, BrandID: &brandID}, nil
}

func parseApplicationID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "applicationId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "application id is required")
	}
	applicationID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid application id")
	}
	return applicationID, nil
}

func listParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

func listFilters(r *http.Request) (internalapplications.ListFilters, error) {
	filters := internalapplications.ListFilters{}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseApplicationStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("campaign_id")); raw != "" {
		campaignID, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid campaign_id filter")
		}
		filters.CampaignID = &campaignID
	}

	return filters, nil
}

// Apply files the influencer's pitch against an open campaign.
func Apply(svc internalapplications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		actor, err := influencerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		raw := strings.TrimSpace(chi.URLParam(r, "campaignId"))
		campaignID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid campaign id"))
			return
		}

		var body applyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		application, err := svc.Apply(r.Context(), actor.ID, internalapplications.ApplyInput{
			CampaignID: campaignID,
			Pitch:      validators.SanitizeString(body.Pitch, 0),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, application)
	}
}

// List pages through the influencer's own applications.
func List(svc internalapplications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		actor, err := influencerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := listParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := listFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForInfluencer(r.Context(), actor.ID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Detail returns one application the actor is allowed to see.
func Detail(svc internalapplications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		actor, err := influencerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		applicationID, err := parseApplicationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		application, err := svc.Get(r.Context(), applicationID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, application)
	}
}

// BrandList pages through applications received by the brand's campaigns.
func BrandList(svc internalapplications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		actor, err := brandActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := listParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := listFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForBrand(r.Context(), *actor.BrandID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// BrandDetail returns one application received by the brand.
func BrandDetail(svc internalapplications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		actor, err := brandActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		applicationID, err := parseApplicationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		application, err := svc.Get(r.Context(), applicationID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, application)
	}
}

// Approve accepts the application and issues the sent contract in the same
// transaction.
func Approve(svc internalapplications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		actor, err := brandActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		applicationID, err := parseApplicationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		application, err := svc.Approve(r.Context(), applicationID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, application)
	}
}

// Decline rejects the application with an optional note for the influencer.
func Decline(svc internalapplications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		actor, err := brandActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		applicationID, err := parseApplicationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body declineRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if body.Note != nil {
			note := validators.SanitizeString(*body.Note, 0)
			body.Note = &note
		}

		application, err := svc.Decline(r.Context(), applicationID, actor, internalapplications.DeclineInput{
			Note: body.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, application)
	}
}

package contracts

import (
	"net/http"

	"github.com/brandquill/brandquill-backend/api/responses"
	"github.com/brandquill/brandquill-backend/api/validators"
	internalcontracts "github.com/brandquill/brandquill-backend/internal/contracts"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/logger"
	"github.com/brandquill/brandquill-backend/pkg/types"
)

type confirmRequest struct {
	Fields types.InfluencerFields `json:"fields" validate:"required"`
}

type updateFieldsRequest struct {
	Fields types.InfluencerFields `json:"fields" validate:"required"`
}

type rejectRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=2000"`
}

// List returns the influencer's contract page, newest first.
func List(svc internalcontracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contracts service unavailable"))
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

// Detail resolves the requested id through the resend chain and returns the
// effective document with computed flags. Unknown ids surface as 404 here;
// the service's degraded echo is an internal shape, not a client contract.
func Detail(svc internalcontracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contracts service unavailable"))
			return
		}

		actor, err := influencerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contractID, err := parseContractID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.ResolveEffective(r.Context(), contractID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if view.Degraded {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "contract not found"))
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// Confirm applies the influencer confirmation with the submitted party
// fields.
func Confirm(svc internalcontracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contracts service unavailable"))
			return
		}

		actor, err := influencerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contractID, err := parseContractID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body confirmRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Confirm(r.Context(), internalcontracts.ConfirmInput{
			ContractID: contractID,
			Actor:      actor,
			Fields:     body.Fields,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// UpdateFields revises the party-fields document on a confirmed contract.
func UpdateFields(svc internalcontracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contracts service unavailable"))
			return
		}

		actor, err := influencerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contractID, err := parseContractID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateFieldsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), internalcontracts.UpdateInput{
			ContractID: contractID,
			Actor:      actor,
			Fields:     body.Fields,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// Sign applies the influencer signature. The image arrives as a multipart
// file part or a JSON base64 payload.
func Sign(svc internalcontracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contracts service unavailable"))
			return
		}

		actor, err := influencerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contractID, err := parseContractID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		image, err := readSignatureImage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Sign(r.Context(), internalcontracts.SignInput{
			ContractID: contractID,
			Actor:      actor,
			Image:      image,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// SignatureImage streams a stored signature bitmap for a contract the
// influencer is party to. The bytes go out raw with image headers, not
// inside the JSON envelope.
func SignatureImage(svc internalcontracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contracts service unavailable"))
			return
		}

		actor, err := influencerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contractID, err := parseContractID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		signatureID, err := parseSignatureID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		image, err := svc.GetSignatureImage(r.Context(), contractID, signatureID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSignatureImage(w, image)
	}
}

// Reject declines the contract with an optional reason.
func Reject(svc internalcontracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contracts service unavailable"))
			return
		}

		actor, err := influencerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contractID, err := parseContractID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rejectRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if body.Reason != nil {
			reason := validators.SanitizeString(*body.Reason, 0)
			body.Reason = &reason
		}

		view, err := svc.Reject(r.Context(), internalcontracts.RejectInput{
			ContractID: contractID,
			Actor:      actor,
			Reason:     body.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

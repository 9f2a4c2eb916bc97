package contracts

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/brandquill/brandquill-backend/api/responses"
	"github.com/brandquill/brandquill-backend/api/validators"
	internalcontracts "github.com/brandquill/brandquill-backend/internal/contracts"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/logger"
)

type resendRequest struct {
	CompensationAmount   *decimal.Decimal `json:"compensation_amount,omitempty"`
	CompensationCurrency *string          `json:"compensation_currency,omitempty"`
	Deliverables         []string         `json:"deliverables,omitempty" validate:"omitempty,max=50,dive,min=1,max=500"`
}

func (req resendRequest) toPatch() (*internalcontracts.TermsPatch, error) {
	if req.CompensationAmount == nil && req.CompensationCurrency == nil && req.Deliverables == nil {
		return nil, nil
	}
	patch := &internalcontracts.TermsPatch{
		CompensationAmount: req.CompensationAmount,
		Deliverables:       req.Deliverables,
	}
	if req.CompensationCurrency != nil {
		currency, err := enums.ParseCurrency(*req.CompensationCurrency)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid compensation currency")
		}
		patch.CompensationCurrency = &currency
	}
	return patch, nil
}

// BrandList returns the brand's contract page across its campaigns.
func BrandList(svc internalcontracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contracts service unavailable"))
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

// BrandDetail resolves the requested id for the brand side of the agreement.
func BrandDetail(svc internalcontracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contracts service unavailable"))
			return
		}

		actor, err := brandActor(r)
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

// BrandConfirm records the brand-side confirmation milestone. The coarse
// status never moves on brand intents; only the lock check can.
func BrandConfirm(svc internalcontracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contracts service unavailable"))
			return
		}

		actor, err := brandActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contractID, err := parseContractID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.BrandConfirm(r.Context(), internalcontracts.BrandConfirmInput{
			ContractID: contractID,
			Actor:      actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// BrandSign records the brand counter-signature and evaluates the derived
// lock.
func BrandSign(svc internalcontracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contracts service unavailable"))
			return
		}

		actor, err := brandActor(r)
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

		view, err := svc.BrandSign(r.Context(), internalcontracts.SignInput{
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

// BrandSignatureImage streams a stored signature bitmap for the brand
// side of the agreement.
func BrandSignatureImage(svc internalcontracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contracts service unavailable"))
			return
		}

		actor, err := brandActor(r)
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

// Resend supersedes the current document with a fresh one, optionally
// patching the business terms. The response carries the replacement.
func Resend(svc internalcontracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contracts service unavailable"))
			return
		}

		actor, err := brandActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contractID, err := parseContractID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body resendRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		patch, err := body.toPatch()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Resend(r.Context(), internalcontracts.ResendInput{
			ContractID: contractID,
			Actor:      actor,
			Terms:      patch,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

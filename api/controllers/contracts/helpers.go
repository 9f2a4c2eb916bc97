package contracts

import (
	"encoding/base64"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brandquill/brandquill-backend/api/middleware"
	"github.com/brandquill/brandquill-backend/api/validators"
	internalcontracts "github.com/brandquill/brandquill-backend/internal/contracts"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/pagination"
)

// multipart uploads hold one signature bitmap, so the in-memory budget stays
// close to the image cap itself.
const signatureFormLimit = internalcontracts.SignatureMaxBytes + 4*1024

func influencerActor(r *http.Request) (internalcontracts.Actor, error) {
	actorID, err := uuid.Parse(middleware.ActorIDFromContext(r.Context()))
	if err != nil {
		return internalcontracts.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor missing from context")
	}
	return internalcontracts.Actor{ID: actorID, Party: enums.ContractPartyInfluencer}, nil
}

func brandActor(r *http.Request) (internalcontracts.Actor, error) {
	actorID, err := uuid.Parse(middleware.ActorIDFromContext(r.Context()))
	if err != nil {
		return internalcontracts.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor missing from context")
	}
	brandID, err := uuid.Parse(middleware.BrandIDFromContext(r.Context()))
	if err != nil {
		return internalcontracts.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "brand missing from context")
	}
	return internalcontracts.Actor{ID: actorID, Party: enums.ContractPartyBrand, BrandID: &brandID}, nil
}

func parseContractID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "contractId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "contract id is required")
	}
	contractID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid contract id")
	}
	return contractID, nil
}

func parseSignatureID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "signatureId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "signature id is required")
	}
	signatureID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid signature id")
	}
	return signatureID, nil
}

// writeSignatureImage streams the bitmap as-is; metadata travels in headers
// so image tags can point straight at the endpoint.
func writeSignatureImage(w http.ResponseWriter, image *internalcontracts.SignatureImageView) {
	w.Header().Set("Content-Type", image.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(image.Data)))
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(image.Data)
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

func listFilters(r *http.Request) (internalcontracts.ListFilters, error) {
	filters := internalcontracts.ListFilters{}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseContractStatus(raw)
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

	includeSuperseded, err := validators.ParseQueryBool(r, "include_superseded", false)
	if err != nil {
		return filters, err
	}
	filters.IncludeSuperseded = includeSuperseded

	return filters, nil
}

type signRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
}

// readSignatureImage accepts the signature as either a multipart file part
// named "signature" or a JSON body with a base64 image. Size and MIME checks
// happen in the lifecycle service; the transport only bounds the read.
func readSignatureImage(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(signatureFormLimit); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload")
		}
		file, _, err := r.FormFile("signature")
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "signature file part required")
		}
		defer file.Close()

		// One extra byte so oversized uploads still trip the service's cap.
		data, err := io.ReadAll(io.LimitReader(file, int64(internalcontracts.SignatureMaxBytes)+1))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read signature upload")
		}
		return data, nil
	}

	var body signRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(body.ImageBase64)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image_base64 must be valid base64")
	}
	return data, nil
}

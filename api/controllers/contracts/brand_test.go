package contracts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brandquill/brandquill-backend/api/middleware"
	internalcontracts "github.com/brandquill/brandquill-backend/internal/contracts"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/brandquill/brandquill-backend/pkg/pagination"
)

func TestBrandListScopesToBrand(t *testing.T) {
	brandID := uuid.New()

	var gotBrand uuid.UUID
	svc := &stubLifecycleService{
		listBrand: func(ctx context.Context, id uuid.UUID, params pagination.Params, filters internalcontracts.ListFilters) (*internalcontracts.ContractList, error) {
			gotBrand = id
			return &internalcontracts.ContractList{}, nil
		},
	}

	handler := BrandList(svc, nil)
	req := brandRequest(http.MethodGet, "/api/v1/brand/contracts", nil, uuid.New(), brandID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotBrand != brandID {
		t.Fatalf("expected list scoped to brand %s got %s", brandID, gotBrand)
	}
}

func TestBrandListRequiresBrandContext(t *testing.T) {
	handler := BrandList(&stubLifecycleService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/brand/contracts", nil)
	ctx := middleware.WithActorID(req.Context(), uuid.NewString())
	ctx = middleware.WithParty(ctx, enums.ContractPartyBrand)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req.WithContext(ctx))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without brand id got %d", resp.Code)
	}
}

func TestBrandConfirmRecordsMilestone(t *testing.T) {
	contractID := uuid.New()
	actorID := uuid.New()
	brandID := uuid.New()

	var gotInput internalcontracts.BrandConfirmInput
	svc := &stubLifecycleService{
		brandConfirm: func(ctx context.Context, input internalcontracts.BrandConfirmInput) (*internalcontracts.ContractView, error) {
			gotInput = input
			return stubView(input.ContractID), nil
		},
	}

	handler := BrandConfirm(svc, nil)
	req := brandRequest(http.MethodPost, "/api/v1/brand/contracts/"+contractID.String()+"/confirm", nil, actorID, brandID)
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.ContractID != contractID {
		t.Fatalf("expected contract %s got %s", contractID, gotInput.ContractID)
	}
	if gotInput.Actor.Party != enums.ContractPartyBrand {
		t.Fatalf("expected brand actor got %s", gotInput.Actor.Party)
	}
	if gotInput.Actor.BrandID == nil || *gotInput.Actor.BrandID != brandID {
		t.Fatalf("expected brand id %s got %+v", brandID, gotInput.Actor.BrandID)
	}
}

func TestBrandSignUploadsSignature(t *testing.T) {
	contractID := uuid.New()
	image := []byte("\x89PNG brand signature")

	var gotInput internalcontracts.SignInput
	svc := &stubLifecycleService{
		brandSign: func(ctx context.Context, input internalcontracts.SignInput) (*internalcontracts.ContractView, error) {
			gotInput = input
			return stubView(input.ContractID), nil
		},
	}

	payload, err := json.Marshal(map[string]string{"image_base64": base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}

	handler := BrandSign(svc, nil)
	req := brandRequest(http.MethodPost, "/api/v1/brand/contracts/"+contractID.String()+"/sign", bytes.NewReader(payload), uuid.New(), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !bytes.Equal(gotInput.Image, image) {
		t.Fatalf("expected signature bytes to reach the service")
	}
}

func TestResendAppliesTermsPatch(t *testing.T) {
	contractID := uuid.New()
	replacementID := uuid.New()

	var gotInput internalcontracts.ResendInput
	svc := &stubLifecycleService{
		resend: func(ctx context.Context, input internalcontracts.ResendInput) (*internalcontracts.ContractView, error) {
			gotInput = input
			return &internalcontracts.ContractView{
				RequestedID: input.ContractID,
				EffectiveID: replacementID,
				Contract:    &internalcontracts.ContractDetail{ID: replacementID},
			}, nil
		},
	}

	body := `{"compensation_amount":"1500.50","compensation_currency":"EUR","deliverables":["1 reel","3 stories"]}`
	handler := Resend(svc, nil)
	req := brandRequest(http.MethodPost, "/api/v1/brand/contracts/"+contractID.String()+"/resend", strings.NewReader(body), uuid.New(), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.Terms == nil {
		t.Fatalf("expected terms patch to reach the service")
	}
	if gotInput.Terms.CompensationAmount == nil || !gotInput.Terms.CompensationAmount.Equal(decimal.RequireFromString("1500.50")) {
		t.Fatalf("unexpected amount %+v", gotInput.Terms.CompensationAmount)
	}
	if gotInput.Terms.CompensationCurrency == nil || *gotInput.Terms.CompensationCurrency != enums.CurrencyEUR {
		t.Fatalf("unexpected currency %+v", gotInput.Terms.CompensationCurrency)
	}
	if len(gotInput.Terms.Deliverables) != 2 {
		t.Fatalf("unexpected deliverables %+v", gotInput.Terms.Deliverables)
	}

	var envelope struct {
		Data internalcontracts.ContractView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.EffectiveID != replacementID {
		t.Fatalf("expected replacement id in response got %s", envelope.Data.EffectiveID)
	}
}

func TestResendWithoutBodyKeepsTerms(t *testing.T) {
	contractID := uuid.New()

	var gotInput internalcontracts.ResendInput
	svc := &stubLifecycleService{
		resend: func(ctx context.Context, input internalcontracts.ResendInput) (*internalcontracts.ContractView, error) {
			gotInput = input
			return stubView(input.ContractID), nil
		},
	}

	handler := Resend(svc, nil)
	req := brandRequest(http.MethodPost, "/api/v1/brand/contracts/"+contractID.String()+"/resend", nil, uuid.New(), uuid.New())
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.Terms != nil {
		t.Fatalf("expected carried-over terms, got patch %+v", gotInput.Terms)
	}
}

func TestResendRejectsUnknownCurrency(t *testing.T) {
	contractID := uuid.New()
	handler := Resend(&stubLifecycleService{}, nil)
	req := brandRequest(http.MethodPost, "/api/v1/brand/contracts/"+contractID.String()+"/resend", strings.NewReader(`{"compensation_currency":"DOGE"}`), uuid.New(), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestBrandDetailMapsDegradedToNotFound(t *testing.T) {
	contractID := uuid.New()
	svc := &stubLifecycleService{
		resolve: func(ctx context.Context, id uuid.UUID, actor internalcontracts.Actor) (*internalcontracts.ContractView, error) {
			if actor.Party != enums.ContractPartyBrand {
				t.Fatalf("expected brand actor got %s", actor.Party)
			}
			return &internalcontracts.ContractView{RequestedID: id, EffectiveID: id, Degraded: true}, nil
		},
	}

	handler := BrandDetail(svc, nil)
	req := brandRequest(http.MethodGet, "/api/v1/brand/contracts/"+contractID.String(), nil, uuid.New(), uuid.New())
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestBrandSignatureImagePassesBrandActor(t *testing.T) {
	contractID := uuid.New()
	signatureID := uuid.New()
	brandID := uuid.New()
	bitmap := []byte("\x89PNG brand copy")

	var gotActor internalcontracts.Actor
	svc := &stubLifecycleService{
		signatureImage: func(ctx context.Context, cID, sID uuid.UUID, actor internalcontracts.Actor) (*internalcontracts.SignatureImageView, error) {
			gotActor = actor
			return &internalcontracts.SignatureImageView{
				ID:         sID,
				ContractID: cID,
				MimeType:   "image/png",
				ByteSize:   len(bitmap),
				Data:       bitmap,
			}, nil
		},
	}

	handler := BrandSignatureImage(svc, nil)
	req := brandRequest(http.MethodGet, "/api/v1/brand/contracts/"+contractID.String()+"/signatures/"+signatureID.String(), nil, uuid.New(), brandID)
	req = withSignatureParams(req, contractID, signatureID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !bytes.Equal(resp.Body.Bytes(), bitmap) {
		t.Fatalf("expected raw bitmap body, got %d bytes", resp.Body.Len())
	}
	if gotActor.Party != enums.ContractPartyBrand || gotActor.BrandID == nil || *gotActor.BrandID != brandID {
		t.Fatalf("expected brand actor with brand %s got %+v", brandID, gotActor)
	}
}

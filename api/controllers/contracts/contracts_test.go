package contracts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brandquill/brandquill-backend/api/middleware"
	internalcontracts "github.com/brandquill/brandquill-backend/internal/contracts"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/pagination"
)

type stubLifecycleService struct {
	resolve        func(ctx context.Context, contractID uuid.UUID, actor internalcontracts.Actor) (*internalcontracts.ContractView, error)
	confirm        func(ctx context.Context, input internalcontracts.ConfirmInput) (*internalcontracts.ContractView, error)
	update         func(ctx context.Context, input internalcontracts.UpdateInput) (*internalcontracts.ContractView, error)
	sign           func(ctx context.Context, input internalcontracts.SignInput) (*internalcontracts.ContractView, error)
	reject         func(ctx context.Context, input internalcontracts.RejectInput) (*internalcontracts.ContractView, error)
	brandConfirm   func(ctx context.Context, input internalcontracts.BrandConfirmInput) (*internalcontracts.ContractView, error)
	brandSign      func(ctx context.Context, input internalcontracts.SignInput) (*internalcontracts.ContractView, error)
	resend         func(ctx context.Context, input internalcontracts.ResendInput) (*internalcontracts.ContractView, error)
	signatureImage func(ctx context.Context, contractID, signatureID uuid.UUID, actor internalcontracts.Actor) (*internalcontracts.SignatureImageView, error)
	listInfluencer func(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters internalcontracts.ListFilters) (*internalcontracts.ContractList, error)
	listBrand      func(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters internalcontracts.ListFilters) (*internalcontracts.ContractList, error)
}

func stubView(contractID uuid.UUID) *internalcontracts.ContractView {
	return &internalcontracts.ContractView{
		RequestedID: contractID,
		EffectiveID: contractID,
		Contract:    &internalcontracts.ContractDetail{ID: contractID},
	}
}

func (s *stubLifecycleService) ResolveEffective(ctx context.Context, contractID uuid.UUID, actor internalcontracts.Actor) (*internalcontracts.ContractView, error) {
	if s.resolve != nil {
		return s.resolve(ctx, contractID, actor)
	}
	return stubView(contractID), nil
}

func (s *stubLifecycleService) Confirm(ctx context.Context, input internalcontracts.ConfirmInput) (*internalcontracts.ContractView, error) {
	if s.confirm != nil {
		return s.confirm(ctx, input)
	}
	return stubView(input.ContractID), nil
}

func (s *stubLifecycleService) Update(ctx context.Context, input internalcontracts.UpdateInput) (*internalcontracts.ContractView, error) {
	if s.update != nil {
		return s.update(ctx, input)
	}
	return stubView(input.ContractID), nil
}

func (s *stubLifecycleService) Sign(ctx context.Context, input internalcontracts.SignInput) (*internalcontracts.ContractView, error) {
	if s.sign != nil {
		return s.sign(ctx, input)
	}
	return stubView(input.ContractID), nil
}

func (s *stubLifecycleService) Reject(ctx context.Context, input internalcontracts.RejectInput) (*internalcontracts.ContractView, error) {
	if s.reject != nil {
		return s.reject(ctx, input)
	}
	return stubView(input.ContractID), nil
}

func (s *stubLifecycleService) BrandConfirm(ctx context.Context, input internalcontracts.BrandConfirmInput) (*internalcontracts.ContractView, error) {
	if s.brandConfirm != nil {
		return s.brandConfirm(ctx, input)
	}
	return stubView(input.ContractID), nil
}

func (s *stubLifecycleService) BrandSign(ctx context.Context, input internalcontracts.SignInput) (*internalcontracts.ContractView, error) {
	if s.brandSign != nil {
		return s.brandSign(ctx, input)
	}
	return stubView(input.ContractID), nil
}

func (s *stubLifecycleService) Resend(ctx context.Context, input internalcontracts.ResendInput) (*internalcontracts.ContractView, error) {
	if s.resend != nil {
		return s.resend(ctx, input)
	}
	return stubView(input.ContractID), nil
}

func (s *stubLifecycleService) GetSignatureImage(ctx context.Context, contractID, signatureID uuid.UUID, actor internalcontracts.Actor) (*internalcontracts.SignatureImageView, error) {
	if s.signatureImage != nil {
		return s.signatureImage(ctx, contractID, signatureID, actor)
	}
	return &internalcontracts.SignatureImageView{ID: signatureID, ContractID: contractID}, nil
}

func (s *stubLifecycleService) ListForInfluencer(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters internalcontracts.ListFilters) (*internalcontracts.ContractList, error) {
	if s.listInfluencer != nil {
		return s.listInfluencer(ctx, influencerID, params, filters)
	}
	return &internalcontracts.ContractList{}, nil
}

func (s *stubLifecycleService) ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters internalcontracts.ListFilters) (*internalcontracts.ContractList, error) {
	if s.listBrand != nil {
		return s.listBrand(ctx, brandID, params, filters)
	}
	return &internalcontracts.ContractList{}, nil
}

func influencerRequest(method, target string, body io.Reader, actorID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := middleware.WithActorID(req.Context(), actorID.String())
	ctx = middleware.WithParty(ctx, enums.ContractPartyInfluencer)
	return req.WithContext(ctx)
}

func brandRequest(method, target string, body io.Reader, actorID, brandID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := middleware.WithActorID(req.Context(), actorID.String())
	ctx = middleware.WithParty(ctx, enums.ContractPartyBrand)
	ctx = middleware.WithBrandID(ctx, brandID.String())
	return req.WithContext(ctx)
}

func withContractParam(req *http.Request, contractID uuid.UUID) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("contractId", contractID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func withSignatureParams(req *http.Request, contractID, signatureID uuid.UUID) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("contractId", contractID.String())
	routeCtx.URLParams.Add("signatureId", signatureID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func fieldsBody(t *testing.T, legalName string) *bytes.Buffer {
	t.Helper()
	payload := map[string]any{
		"fields": map[string]any{
			"legal_name":    legalName,
			"email":         "ada@example.com",
			"phone":         "+1-555-0100",
			"tax_form_type": "W-9",
			"address": map[string]any{
				"line1":       "1 Analytical Way",
				"city":        "London",
				"state":       "LDN",
				"postal_code": "EC1A",
				"country":     "GB",
			},
			"consents": map[string]any{
				"insights_read_only": true,
				"whitelisting":       false,
				"spark_ads":          false,
			},
		},
	}
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		t.Fatalf("encode fields body: %v", err)
	}
	return buf
}

func TestListScopesToInfluencer(t *testing.T) {
	actorID := uuid.New()
	campaignID := uuid.New()

	var gotInfluencer uuid.UUID
	var gotParams pagination.Params
	var gotFilters internalcontracts.ListFilters
	svc := &stubLifecycleService{
		listInfluencer: func(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters internalcontracts.ListFilters) (*internalcontracts.ContractList, error) {
			gotInfluencer = influencerID
			gotParams = params
			gotFilters = filters
			return &internalcontracts.ContractList{}, nil
		},
	}

	handler := List(svc, nil)
	target := "/api/v1/contracts?limit=10&status=sent&campaign_id=" + campaignID.String() + "&include_superseded=true"
	req := influencerRequest(http.MethodGet, target, nil, actorID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInfluencer != actorID {
		t.Fatalf("expected list scoped to %s got %s", actorID, gotInfluencer)
	}
	if gotParams.Limit != 10 {
		t.Fatalf("expected limit 10 got %d", gotParams.Limit)
	}
	if gotFilters.Status == nil || *gotFilters.Status != enums.ContractStatusSent {
		t.Fatalf("expected sent status filter got %+v", gotFilters.Status)
	}
	if gotFilters.CampaignID == nil || *gotFilters.CampaignID != campaignID {
		t.Fatalf("expected campaign filter %s got %+v", campaignID, gotFilters.CampaignID)
	}
	if !gotFilters.IncludeSuperseded {
		t.Fatalf("expected superseded rows to be included")
	}
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	handler := List(&stubLifecycleService{}, nil)
	req := influencerRequest(http.MethodGet, "/api/v1/contracts?status=archived", nil, uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListRequiresActorContext(t *testing.T) {
	handler := List(&stubLifecycleService{}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/contracts", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestDetailReturnsEffectiveDocument(t *testing.T) {
	requestedID := uuid.New()
	effectiveID := uuid.New()
	svc := &stubLifecycleService{
		resolve: func(ctx context.Context, contractID uuid.UUID, actor internalcontracts.Actor) (*internalcontracts.ContractView, error) {
			return &internalcontracts.ContractView{
				RequestedID: contractID,
				EffectiveID: effectiveID,
				ChainDepth:  1,
				Contract:    &internalcontracts.ContractDetail{ID: effectiveID},
			}, nil
		},
	}

	handler := Detail(svc, nil)
	req := influencerRequest(http.MethodGet, "/api/v1/contracts/"+requestedID.String(), nil, uuid.New())
	req = withContractParam(req, requestedID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data internalcontracts.ContractView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RequestedID != requestedID || envelope.Data.EffectiveID != effectiveID {
		t.Fatalf("expected chain redirect in response, got %+v", envelope.Data)
	}
}

func TestDetailMapsDegradedResolutionToNotFound(t *testing.T) {
	contractID := uuid.New()
	svc := &stubLifecycleService{
		resolve: func(ctx context.Context, id uuid.UUID, actor internalcontracts.Actor) (*internalcontracts.ContractView, error) {
			return &internalcontracts.ContractView{RequestedID: id, EffectiveID: id, Degraded: true}, nil
		},
	}

	handler := Detail(svc, nil)
	req := influencerRequest(http.MethodGet, "/api/v1/contracts/"+contractID.String(), nil, uuid.New())
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestDetailRejectsMalformedID(t *testing.T) {
	handler := Detail(&stubLifecycleService{}, nil)
	req := influencerRequest(http.MethodGet, "/api/v1/contracts/not-a-uuid", nil, uuid.New())
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("contractId", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestConfirmSubmitsPartyFields(t *testing.T) {
	contractID := uuid.New()
	actorID := uuid.New()

	var gotInput internalcontracts.ConfirmInput
	svc := &stubLifecycleService{
		confirm: func(ctx context.Context, input internalcontracts.ConfirmInput) (*internalcontracts.ContractView, error) {
			gotInput = input
			return stubView(input.ContractID), nil
		},
	}

	handler := Confirm(svc, nil)
	req := influencerRequest(http.MethodPost, "/api/v1/contracts/"+contractID.String()+"/confirm", fieldsBody(t, "Ada Lovelace"), actorID)
	req.Header.Set("Content-Type", "application/json")
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.ContractID != contractID {
		t.Fatalf("expected contract %s got %s", contractID, gotInput.ContractID)
	}
	if gotInput.Actor.ID != actorID || gotInput.Actor.Party != enums.ContractPartyInfluencer {
		t.Fatalf("unexpected actor %+v", gotInput.Actor)
	}
	if gotInput.Fields.LegalName != "Ada Lovelace" {
		t.Fatalf("expected fields document to pass through, got %q", gotInput.Fields.LegalName)
	}
}

func TestConfirmRejectsEmptyFields(t *testing.T) {
	contractID := uuid.New()
	handler := Confirm(&stubLifecycleService{}, nil)
	req := influencerRequest(http.MethodPost, "/api/v1/contracts/"+contractID.String()+"/confirm", strings.NewReader(`{}`), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestConfirmPassesGuardErrorsThrough(t *testing.T) {
	contractID := uuid.New()
	svc := &stubLifecycleService{
		confirm: func(ctx context.Context, input internalcontracts.ConfirmInput) (*internalcontracts.ContractView, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "contract already rejected")
		},
	}

	handler := Confirm(svc, nil)
	req := influencerRequest(http.MethodPost, "/api/v1/contracts/"+contractID.String()+"/confirm", fieldsBody(t, "Ada Lovelace"), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "contract already rejected") {
		t.Fatalf("expected guard message in body: %s", resp.Body.String())
	}
}

func TestUpdateFieldsRevisesDocument(t *testing.T) {
	contractID := uuid.New()

	var gotInput internalcontracts.UpdateInput
	svc := &stubLifecycleService{
		update: func(ctx context.Context, input internalcontracts.UpdateInput) (*internalcontracts.ContractView, error) {
			gotInput = input
			return stubView(input.ContractID), nil
		},
	}

	handler := UpdateFields(svc, nil)
	req := influencerRequest(http.MethodPut, "/api/v1/contracts/"+contractID.String()+"/fields", fieldsBody(t, "Ada King"), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.Fields.LegalName != "Ada King" {
		t.Fatalf("expected revised legal name, got %q", gotInput.Fields.LegalName)
	}
}

func TestSignAcceptsJSONBase64(t *testing.T) {
	contractID := uuid.New()
	image := []byte("\x89PNG fake signature bytes")

	var gotInput internalcontracts.SignInput
	svc := &stubLifecycleService{
		sign: func(ctx context.Context, input internalcontracts.SignInput) (*internalcontracts.ContractView, error) {
			gotInput = input
			return stubView(input.ContractID), nil
		},
	}

	payload, err := json.Marshal(map[string]string{"image_base64": base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}

	handler := Sign(svc, nil)
	req := influencerRequest(http.MethodPost, "/api/v1/contracts/"+contractID.String()+"/sign", bytes.NewReader(payload), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !bytes.Equal(gotInput.Image, image) {
		t.Fatalf("expected decoded image to reach the service")
	}
}

func TestSignAcceptsMultipartUpload(t *testing.T) {
	contractID := uuid.New()
	image := []byte("\x89PNG multipart signature")

	var gotInput internalcontracts.SignInput
	svc := &stubLifecycleService{
		sign: func(ctx context.Context, input internalcontracts.SignInput) (*internalcontracts.ContractView, error) {
			gotInput = input
			return stubView(input.ContractID), nil
		},
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("signature", "signature.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(image); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	handler := Sign(svc, nil)
	req := influencerRequest(http.MethodPost, "/api/v1/contracts/"+contractID.String()+"/sign", body, uuid.New())
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !bytes.Equal(gotInput.Image, image) {
		t.Fatalf("expected uploaded image to reach the service")
	}
}

func TestSignRejectsInvalidBase64(t *testing.T) {
	contractID := uuid.New()
	handler := Sign(&stubLifecycleService{}, nil)
	req := influencerRequest(http.MethodPost, "/api/v1/contracts/"+contractID.String()+"/sign", strings.NewReader(`{"image_base64":"%%%not-base64%%%"}`), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRejectCarriesOptionalReason(t *testing.T) {
	contractID := uuid.New()

	var gotInput internalcontracts.RejectInput
	svc := &stubLifecycleService{
		reject: func(ctx context.Context, input internalcontracts.RejectInput) (*internalcontracts.ContractView, error) {
			gotInput = input
			return stubView(input.ContractID), nil
		},
	}

	handler := Reject(svc, nil)
	req := influencerRequest(http.MethodPost, "/api/v1/contracts/"+contractID.String()+"/reject", strings.NewReader(`{"reason":"rates changed"}`), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.Reason == nil || *gotInput.Reason != "rates changed" {
		t.Fatalf("expected reason to pass through, got %+v", gotInput.Reason)
	}
}

func TestRejectAcceptsEmptyBody(t *testing.T) {
	contractID := uuid.New()

	var gotInput internalcontracts.RejectInput
	svc := &stubLifecycleService{
		reject: func(ctx context.Context, input internalcontracts.RejectInput) (*internalcontracts.ContractView, error) {
			gotInput = input
			return stubView(input.ContractID), nil
		},
	}

	handler := Reject(svc, nil)
	req := influencerRequest(http.MethodPost, "/api/v1/contracts/"+contractID.String()+"/reject", nil, uuid.New())
	req = withContractParam(req, contractID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.Reason != nil {
		t.Fatalf("expected nil reason got %q", *gotInput.Reason)
	}
}

func TestHandlersGuardNilService(t *testing.T) {
	handler := List(nil, nil)
	req := influencerRequest(http.MethodGet, "/api/v1/contracts", nil, uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestSignatureImageStreamsBitmap(t *testing.T) {
	contractID := uuid.New()
	signatureID := uuid.New()
	actorID := uuid.New()
	bitmap := []byte("\x89PNG stored signature")

	var gotContract, gotSignature uuid.UUID
	var gotActor internalcontracts.Actor
	svc := &stubLifecycleService{
		signatureImage: func(ctx context.Context, cID, sID uuid.UUID, actor internalcontracts.Actor) (*internalcontracts.SignatureImageView, error) {
			gotContract, gotSignature, gotActor = cID, sID, actor
			return &internalcontracts.SignatureImageView{
				ID:         sID,
				ContractID: cID,
				MimeType:   "image/png",
				ByteSize:   len(bitmap),
				Data:       bitmap,
			}, nil
		},
	}

	handler := SignatureImage(svc, nil)
	req := influencerRequest(http.MethodGet, "/api/v1/contracts/"+contractID.String()+"/signatures/"+signatureID.String(), nil, actorID)
	req = withSignatureParams(req, contractID, signatureID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); got != "image/png" {
		t.Fatalf("expected image content type got %q", got)
	}
	if !bytes.Equal(resp.Body.Bytes(), bitmap) {
		t.Fatalf("expected raw bitmap body, got %d bytes", resp.Body.Len())
	}
	if gotContract != contractID || gotSignature != signatureID {
		t.Fatalf("expected ids %s/%s got %s/%s", contractID, signatureID, gotContract, gotSignature)
	}
	if gotActor.ID != actorID || gotActor.Party != enums.ContractPartyInfluencer {
		t.Fatalf("unexpected actor %+v", gotActor)
	}
}

func TestSignatureImageUnknownIDReturnsNotFound(t *testing.T) {
	contractID := uuid.New()
	svc := &stubLifecycleService{
		signatureImage: func(ctx context.Context, cID, sID uuid.UUID, actor internalcontracts.Actor) (*internalcontracts.SignatureImageView, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "signature image not found")
		},
	}

	handler := SignatureImage(svc, nil)
	req := influencerRequest(http.MethodGet, "/api/v1/contracts/"+contractID.String()+"/signatures/"+uuid.NewString(), nil, uuid.New())
	req = withSignatureParams(req, contractID, uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

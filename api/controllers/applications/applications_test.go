package applications

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brandquill/brandquill-backend/api/middleware"
	internalapplications "github.com/brandquill/brandquill-backend/internal/applications"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/pagination"
)

type stubApplicationService struct {
	apply          func(ctx context.Context, influencerID uuid.UUID, input internalapplications.ApplyInput) (*internalapplications.ApplicationDTO, error)
	approve        func(ctx context.Context, applicationID uuid.UUID, actor internalapplications.Actor) (*internalapplications.ApplicationDTO, error)
	decline        func(ctx context.Context, applicationID uuid.UUID, actor internalapplications.Actor, input internalapplications.DeclineInput) (*internalapplications.ApplicationDTO, error)
	get            func(ctx context.Context, applicationID uuid.UUID, actor internalapplications.Actor) (*internalapplications.ApplicationDTO, error)
	listInfluencer func(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters internalapplications.ListFilters) (*internalapplications.ApplicationList, error)
	listBrand      func(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters internalapplications.ListFilters) (*internalapplications.ApplicationList, error)
}

func (s *stubApplicationService) Apply(ctx context.Context, influencerID uuid.UUID, input internalapplications.ApplyInput) (*internalapplications.ApplicationDTO, error) {
	if s.apply != nil {
		return s.apply(ctx, influencerID, input)
	}
	return &internalapplications.ApplicationDTO{ID: uuid.New(), CampaignID: input.CampaignID, InfluencerID: influencerID}, nil
}

func (s *stubApplicationService) Approve(ctx context.Context, applicationID uuid.UUID, actor internalapplications.Actor) (*internalapplications.ApplicationDTO, error) {
	if s.approve != nil {
		return s.approve(ctx, applicationID, actor)
	}
	return &internalapplications.ApplicationDTO{ID: applicationID, Status: enums.ApplicationStatusApproved}, nil
}

func (s *stubApplicationService) Decline(ctx context.Context, applicationID uuid.UUID, actor internalapplications.Actor, input internalapplications.DeclineInput) (*internalapplications.ApplicationDTO, error) {
	if s.decline != nil {
		return s.decline(ctx, applicationID, actor, input)
	}
	return &internalapplications.ApplicationDTO{ID: applicationID, Status: enums.ApplicationStatusDeclined}, nil
}

func (s *stubApplicationService) Get(ctx context.Context, applicationID uuid.UUID, actor internalapplications.Actor) (*internalapplications.ApplicationDTO, error) {
	if s.get != nil {
		return s.get(ctx, applicationID, actor)
	}
	return &internalapplications.ApplicationDTO{ID: applicationID}, nil
}

func (s *stubApplicationService) ListForInfluencer(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters internalapplications.ListFilters) (*internalapplications.ApplicationList, error) {
	if s.listInfluencer != nil {
		return s.listInfluencer(ctx, influencerID, params, filters)
	}
	return &internalapplications.ApplicationList{}, nil
}

func (s *stubApplicationService) ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters internalapplications.ListFilters) (*internalapplications.ApplicationList, error) {
	if s.listBrand != nil {
		return s.listBrand(ctx, brandID, params, filters)
	}
	return &internalapplications.ApplicationList{}, nil
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

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestApplyFilesPitch(t *testing.T) {
	actorID := uuid.New()
	campaignID := uuid.New()

	var gotInfluencer uuid.UUID
	var gotInput internalapplications.ApplyInput
	svc := &stubApplicationService{
		apply: func(ctx context.Context, influencerID uuid.UUID, input internalapplications.ApplyInput) (*internalapplications.ApplicationDTO, error) {
			gotInfluencer = influencerID
			gotInput = input
			return &internalapplications.ApplicationDTO{ID: uuid.New(), CampaignID: input.CampaignID, InfluencerID: influencerID}, nil
		},
	}

	handler := Apply(svc, nil)
	req := influencerRequest(http.MethodPost, "/api/v1/campaigns/"+campaignID.String()+"/applications", strings.NewReader(`{"pitch":"I post daily beauty content"}`), actorID)
	req.Header.Set("Content-Type", "application/json")
	req = withRouteParam(req, "campaignId", campaignID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInfluencer != actorID {
		t.Fatalf("expected influencer %s got %s", actorID, gotInfluencer)
	}
	if gotInput.CampaignID != campaignID {
		t.Fatalf("expected campaign %s got %s", campaignID, gotInput.CampaignID)
	}
	if gotInput.Pitch != "I post daily beauty content" {
		t.Fatalf("unexpected pitch %q", gotInput.Pitch)
	}
}

func TestApplyRejectsEmptyPitch(t *testing.T) {
	campaignID := uuid.New()
	handler := Apply(&stubApplicationService{}, nil)
	req := influencerRequest(http.MethodPost, "/api/v1/campaigns/"+campaignID.String()+"/applications", strings.NewReader(`{"pitch":""}`), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	req = withRouteParam(req, "campaignId", campaignID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestApplyPassesConflictThrough(t *testing.T) {
	campaignID := uuid.New()
	svc := &stubApplicationService{
		apply: func(ctx context.Context, influencerID uuid.UUID, input internalapplications.ApplyInput) (*internalapplications.ApplicationDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "application already filed")
		},
	}

	handler := Apply(svc, nil)
	req := influencerRequest(http.MethodPost, "/api/v1/campaigns/"+campaignID.String()+"/applications", strings.NewReader(`{"pitch":"hello"}`), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	req = withRouteParam(req, "campaignId", campaignID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "application already filed") {
		t.Fatalf("expected conflict message in body: %s", resp.Body.String())
	}
}

func TestListFiltersByStatusAndCampaign(t *testing.T) {
	actorID := uuid.New()
	campaignID := uuid.New()

	var gotInfluencer uuid.UUID
	var gotFilters internalapplications.ListFilters
	svc := &stubApplicationService{
		listInfluencer: func(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters internalapplications.ListFilters) (*internalapplications.ApplicationList, error) {
			gotInfluencer = influencerID
			gotFilters = filters
			return &internalapplications.ApplicationList{}, nil
		},
	}

	handler := List(svc, nil)
	req := influencerRequest(http.MethodGet, "/api/v1/applications?status=submitted&campaign_id="+campaignID.String(), nil, actorID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInfluencer != actorID {
		t.Fatalf("expected list scoped to %s got %s", actorID, gotInfluencer)
	}
	if gotFilters.Status == nil || *gotFilters.Status != enums.ApplicationStatusSubmitted {
		t.Fatalf("expected submitted filter got %+v", gotFilters.Status)
	}
	if gotFilters.CampaignID == nil || *gotFilters.CampaignID != campaignID {
		t.Fatalf("expected campaign filter %s got %+v", campaignID, gotFilters.CampaignID)
	}
}

func TestDetailUsesInfluencerActor(t *testing.T) {
	actorID := uuid.New()
	applicationID := uuid.New()

	var gotActor internalapplications.Actor
	svc := &stubApplicationService{
		get: func(ctx context.Context, id uuid.UUID, actor internalapplications.Actor) (*internalapplications.ApplicationDTO, error) {
			gotActor = actor
			return &internalapplications.ApplicationDTO{ID: id, InfluencerID: actor.ID}, nil
		},
	}

	handler := Detail(svc, nil)
	req := influencerRequest(http.MethodGet, "/api/v1/applications/"+applicationID.String(), nil, actorID)
	req = withRouteParam(req, "applicationId", applicationID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotActor.ID != actorID || gotActor.Party != enums.ContractPartyInfluencer {
		t.Fatalf("unexpected actor %+v", gotActor)
	}
}

func TestBrandListScopesToBrand(t *testing.T) {
	brandID := uuid.New()

	var gotBrand uuid.UUID
	svc := &stubApplicationService{
		listBrand: func(ctx context.Context, id uuid.UUID, params pagination.Params, filters internalapplications.ListFilters) (*internalapplications.ApplicationList, error) {
			gotBrand = id
			return &internalapplications.ApplicationList{}, nil
		},
	}

	handler := BrandList(svc, nil)
	req := brandRequest(http.MethodGet, "/api/v1/brand/applications", nil, uuid.New(), brandID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotBrand != brandID {
		t.Fatalf("expected list scoped to brand %s got %s", brandID, gotBrand)
	}
}

func TestApproveIssuesDecision(t *testing.T) {
	applicationID := uuid.New()
	brandID := uuid.New()

	var gotID uuid.UUID
	var gotActor internalapplications.Actor
	svc := &stubApplicationService{
		approve: func(ctx context.Context, id uuid.UUID, actor internalapplications.Actor) (*internalapplications.ApplicationDTO, error) {
			gotID = id
			gotActor = actor
			contractID := uuid.New()
			return &internalapplications.ApplicationDTO{ID: id, Status: enums.ApplicationStatusApproved, ContractID: &contractID}, nil
		},
	}

	handler := Approve(svc, nil)
	req := brandRequest(http.MethodPost, "/api/v1/brand/applications/"+applicationID.String()+"/approve", nil, uuid.New(), brandID)
	req = withRouteParam(req, "applicationId", applicationID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotID != applicationID {
		t.Fatalf("expected application %s got %s", applicationID, gotID)
	}
	if gotActor.BrandID == nil || *gotActor.BrandID != brandID {
		t.Fatalf("expected brand actor %s got %+v", brandID, gotActor.BrandID)
	}

	var envelope struct {
		Data internalapplications.ApplicationDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ContractID == nil {
		t.Fatalf("expected issued contract id in response")
	}
}

func TestDeclineCarriesOptionalNote(t *testing.T) {
	applicationID := uuid.New()

	var gotInput internalapplications.DeclineInput
	svc := &stubApplicationService{
		decline: func(ctx context.Context, id uuid.UUID, actor internalapplications.Actor, input internalapplications.DeclineInput) (*internalapplications.ApplicationDTO, error) {
			gotInput = input
			return &internalapplications.ApplicationDTO{ID: id, Status: enums.ApplicationStatusDeclined}, nil
		},
	}

	handler := Decline(svc, nil)
	req := brandRequest(http.MethodPost, "/api/v1/brand/applications/"+applicationID.String()+"/decline", strings.NewReader(`{"note":"budget is spoken for"}`), uuid.New(), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	req = withRouteParam(req, "applicationId", applicationID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.Note == nil || *gotInput.Note != "budget is spoken for" {
		t.Fatalf("expected note to pass through got %+v", gotInput.Note)
	}
}

func TestDeclineAcceptsEmptyBody(t *testing.T) {
	applicationID := uuid.New()

	var gotInput internalapplications.DeclineInput
	svc := &stubApplicationService{
		decline: func(ctx context.Context, id uuid.UUID, actor internalapplications.Actor, input internalapplications.DeclineInput) (*internalapplications.ApplicationDTO, error) {
			gotInput = input
			return &internalapplications.ApplicationDTO{ID: id, Status: enums.ApplicationStatusDeclined}, nil
		},
	}

	handler := Decline(svc, nil)
	req := brandRequest(http.MethodPost, "/api/v1/brand/applications/"+applicationID.String()+"/decline", nil, uuid.New(), uuid.New())
	req = withRouteParam(req, "applicationId", applicationID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.Note != nil {
		t.Fatalf("expected nil note got %q", *gotInput.Note)
	}
}

func TestApproveRequiresBrandContext(t *testing.T) {
	applicationID := uuid.New()
	handler := Approve(&stubApplicationService{}, nil)
	req := influencerRequest(http.MethodPost, "/api/v1/brand/applications/"+applicationID.String()+"/approve", nil, uuid.New())
	req = withRouteParam(req, "applicationId", applicationID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

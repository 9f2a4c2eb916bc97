package applications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/brandquill/brandquill-backend/internal/contracts"
	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/outbox"
	"github.com/brandquill/brandquill-backend/pkg/outbox/payloads"
	"github.com/brandquill/brandquill-backend/pkg/pagination"
)

type stubApplicationsRepo struct {
	applications map[uuid.UUID]*models.CampaignApplication
	createErr    error

	updateGuarded func(ctx context.Context, applicationID uuid.UUID, expected enums.ApplicationStatus, updates map[string]any) (int64, error)

	listRows    []models.CampaignApplication
	listCursor  string
	lastFilters ListFilters
}

func newStubApplicationsRepo(rows ...*models.CampaignApplication) *stubApplicationsRepo {
	repo := &stubApplicationsRepo{applications: make(map[uuid.UUID]*models.CampaignApplication)}
	for _, row := range rows {
		repo.applications[row.ID] = row
	}
	return repo
}

func (s *stubApplicationsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubApplicationsRepo) Create(ctx context.Context, application *models.CampaignApplication) (*models.CampaignApplication, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.applications[application.ID] = application
	return application, nil
}

// FindByID hands back a copy so service-side mutations only reach the stored
// row through UpdateGuarded, mirroring a real database.
func (s *stubApplicationsRepo) FindByID(ctx context.Context, applicationID uuid.UUID) (*models.CampaignApplication, error) {
	row, ok := s.applications[applicationID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *row
	return &clone, nil
}

func (s *stubApplicationsRepo) FindByCampaignAndInfluencer(ctx context.Context, campaignID, influencerID uuid.UUID) (*models.CampaignApplication, error) {
	for _, row := range s.applications {
		if row.CampaignID == campaignID && row.InfluencerID == influencerID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubApplicationsRepo) UpdateGuarded(ctx context.Context, applicationID uuid.UUID, expected enums.ApplicationStatus, updates map[string]any) (int64, error) {
	if s.updateGuarded != nil {
		return s.updateGuarded(ctx, applicationID, expected, updates)
	}
	row, ok := s.applications[applicationID]
	if !ok || row.Status != expected {
		return 0, nil
	}
	for column, value := range updates {
		switch column {
		case "status":
			row.Status = value.(enums.ApplicationStatus)
		case "contract_id":
			id := value.(uuid.UUID)
			row.ContractID = &id
		case "decline_note":
			if value == nil {
				row.DeclineNote = nil
			} else {
				row.DeclineNote = value.(*string)
			}
		case "decided_at":
			at := value.(time.Time)
			row.DecidedAt = &at
		}
	}
	return 1, nil
}

func (s *stubApplicationsRepo) ListForInfluencer(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.CampaignApplication, string, error) {
	s.lastFilters = filters
	return s.listRows, s.listCursor, nil
}

func (s *stubApplicationsRepo) ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.CampaignApplication, string, error) {
	s.lastFilters = filters
	return s.listRows, s.listCursor, nil
}

type stubCampaignLoader struct {
	campaigns map[uuid.UUID]*models.Campaign
}

func newStubCampaignLoader(rows ...*models.Campaign) *stubCampaignLoader {
	loader := &stubCampaignLoader{campaigns: make(map[uuid.UUID]*models.Campaign)}
	for _, row := range rows {
		loader.campaigns[row.ID] = row
	}
	return loader
}

func (s *stubCampaignLoader) FindByID(ctx context.Context, campaignID uuid.UUID) (*models.Campaign, error) {
	row, ok := s.campaigns[campaignID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *row
	return &clone, nil
}

// stubContractIssuer only implements the slice of the contracts repository
// that approval exercises.
type stubContractIssuer struct {
	created []*models.Contract
}

func (s *stubContractIssuer) WithTx(tx *gorm.DB) contracts.Repository {
	return s
}

func (s *stubContractIssuer) Create(ctx context.Context, contract *models.Contract) (*models.Contract, error) {
	s.created = append(s.created, contract)
	return contract, nil
}

func (s *stubContractIssuer) FindByID(ctx context.Context, contractID uuid.UUID) (*models.Contract, error) {
	panic("not implemented")
}

func (s *stubContractIssuer) ListChain(ctx context.Context, brandID, influencerID, campaignID uuid.UUID) ([]models.Contract, error) {
	panic("not implemented")
}

func (s *stubContractIssuer) ListForInfluencer(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters contracts.ListFilters) (*contracts.ContractPage, error) {
	panic("not implemented")
}

func (s *stubContractIssuer) ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters contracts.ListFilters) (*contracts.ContractPage, error) {
	panic("not implemented")
}

func (s *stubContractIssuer) UpdateGuarded(ctx context.Context, contractID uuid.UUID, expectedStatus enums.ContractStatus, updates map[string]any) (int64, error) {
	panic("not implemented")
}

func (s *stubContractIssuer) MarkSuperseded(ctx context.Context, contractID, successorID uuid.UUID) (int64, error) {
	panic("not implemented")
}

func (s *stubContractIssuer) CreateSignatureImage(ctx context.Context, image *models.SignatureImage) (*models.SignatureImage, error) {
	panic("not implemented")
}

func (s *stubContractIssuer) FindSignatureImage(ctx context.Context, imageID uuid.UUID) (*models.SignatureImage, error) {
	panic("not implemented")
}

func (s *stubContractIssuer) FindStaleSent(ctx context.Context, cutoff time.Time, limit int) ([]models.Contract, error) {
	panic("not implemented")
}

type stubEventSink struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubEventSink) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type applicationFixture struct {
	repo      *stubApplicationsRepo
	loader    *stubCampaignLoader
	issuer    *stubContractIssuer
	sink      *stubEventSink
	svc       Service
	campaign  *models.Campaign
	brandID   uuid.UUID
	brandUser Actor
}

func newApplicationFixture(t *testing.T, campaignStatus enums.CampaignStatus, rows ...*models.CampaignApplication) *applicationFixture {
	t.Helper()

	brandID := uuid.New()
	campaign := &models.Campaign{
		ID:                   uuid.New(),
		BrandID:              brandID,
		Title:                "Summer launch",
		Brief:                "Three reels promoting the summer line.",
		Status:               campaignStatus,
		CompensationAmount:   decimal.NewFromInt(2500),
		CompensationCurrency: enums.CurrencyUSD,
		Deliverables:         []string{"3 instagram reels", "1 story set"},
		CreatedAt:            time.Now().UTC(),
	}
	for _, row := range rows {
		row.CampaignID = campaign.ID
	}

	repo := newStubApplicationsRepo(rows...)
	loader := newStubCampaignLoader(campaign)
	issuer := &stubContractIssuer{}
	sink := &stubEventSink{}
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Campaigns: loader,
		Contracts: issuer,
		Tx:        stubTxRunner{},
		Outbox:    sink,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &applicationFixture{
		repo:      repo,
		loader:    loader,
		issuer:    issuer,
		sink:      sink,
		svc:       svc,
		campaign:  campaign,
		brandID:   brandID,
		brandUser: Actor{ID: uuid.New(), Party: enums.ContractPartyBrand, BrandID: &brandID},
	}
}

func submittedApplication(influencerID uuid.UUID) *models.CampaignApplication {
	return &models.CampaignApplication{
		ID:           uuid.New(),
		InfluencerID: influencerID,
		Pitch:        "I have a strong beauty audience.",
		Status:       enums.ApplicationStatusSubmitted,
		CreatedAt:    time.Now().UTC(),
	}
}

func assertApplicationCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if typed.Code() != want {
		t.Fatalf("expected code %s, got %s (%v)", want, typed.Code(), err)
	}
}

func TestApplyToOpenCampaign(t *testing.T) {
	f := newApplicationFixture(t, enums.CampaignStatusOpen)
	influencerID := uuid.New()

	dto, err := f.svc.Apply(context.Background(), influencerID, ApplyInput{
		CampaignID: f.campaign.ID,
		Pitch:      "  I have a strong beauty audience.  ",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if dto.Status != enums.ApplicationStatusSubmitted {
		t.Fatalf("expected submitted status, got %s", dto.Status)
	}
	if dto.Pitch != "I have a strong beauty audience." {
		t.Fatalf("pitch was not trimmed: %q", dto.Pitch)
	}
	if _, ok := f.repo.applications[dto.ID]; !ok {
		t.Fatalf("application was not persisted")
	}
	if len(f.sink.events) != 1 || f.sink.events[0].EventType != enums.EventApplicationSubmitted {
		t.Fatalf("expected a single application_submitted event, got %v", f.sink.events)
	}
	payload, ok := f.sink.events[0].Data.(payloads.ApplicationSubmittedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", f.sink.events[0].Data)
	}
	if payload.BrandID != f.brandID || payload.InfluencerID != influencerID {
		t.Fatalf("payload parties are wrong: %+v", payload)
	}
}

func TestApplyRequiresOpenCampaign(t *testing.T) {
	for _, status := range []enums.CampaignStatus{enums.CampaignStatusDraft, enums.CampaignStatusClosed} {
		t.Run(status.String(), func(t *testing.T) {
			f := newApplicationFixture(t, status)

			_, err := f.svc.Apply(context.Background(), uuid.New(), ApplyInput{
				CampaignID: f.campaign.ID,
				Pitch:      "pick me",
			})
			assertApplicationCode(t, err, pkgerrors.CodeStateConflict)
			if len(f.repo.applications) != 0 {
				t.Fatalf("application must not be persisted")
			}
		})
	}
}

func TestApplyToUnknownCampaign(t *testing.T) {
	f := newApplicationFixture(t, enums.CampaignStatusOpen)

	_, err := f.svc.Apply(context.Background(), uuid.New(), ApplyInput{
		CampaignID: uuid.New(),
		Pitch:      "pick me",
	})
	assertApplicationCode(t, err, pkgerrors.CodeNotFound)
}

func TestApplyValidation(t *testing.T) {
	f := newApplicationFixture(t, enums.CampaignStatusOpen)

	_, err := f.svc.Apply(context.Background(), uuid.New(), ApplyInput{CampaignID: f.campaign.ID, Pitch: "   "})
	assertApplicationCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.Apply(context.Background(), uuid.New(), ApplyInput{CampaignID: uuid.Nil, Pitch: "pick me"})
	assertApplicationCode(t, err, pkgerrors.CodeValidation)
}

func TestApplyTwiceToSameCampaign(t *testing.T) {
	influencerID := uuid.New()
	existing := submittedApplication(influencerID)
	f := newApplicationFixture(t, enums.CampaignStatusOpen, existing)

	_, err := f.svc.Apply(context.Background(), influencerID, ApplyInput{
		CampaignID: f.campaign.ID,
		Pitch:      "second try",
	})
	assertApplicationCode(t, err, pkgerrors.CodeConflict)
	if len(f.repo.applications) != 1 {
		t.Fatalf("duplicate application must not be persisted")
	}
	if len(f.sink.events) != 0 {
		t.Fatalf("duplicate application must not emit events")
	}
}

func TestApplyDuplicateRaceHitsUniqueIndex(t *testing.T) {
	f := newApplicationFixture(t, enums.CampaignStatusOpen)
	f.repo.createErr = errors.New(`duplicate key value violates unique constraint "idx_application_campaign_influencer"`)

	_, err := f.svc.Apply(context.Background(), uuid.New(), ApplyInput{
		CampaignID: f.campaign.ID,
		Pitch:      "pick me",
	})
	assertApplicationCode(t, err, pkgerrors.CodeConflict)
}

func TestApproveIssuesSentContract(t *testing.T) {
	influencerID := uuid.New()
	application := submittedApplication(influencerID)
	f := newApplicationFixture(t, enums.CampaignStatusOpen, application)

	dto, err := f.svc.Approve(context.Background(), application.ID, f.brandUser)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if dto.Status != enums.ApplicationStatusApproved {
		t.Fatalf("expected approved status, got %s", dto.Status)
	}
	if dto.ContractID == nil || dto.DecidedAt == nil {
		t.Fatalf("approval must stamp contract_id and decided_at")
	}

	if len(f.issuer.created) != 1 {
		t.Fatalf("expected one issued contract, got %d", len(f.issuer.created))
	}
	contract := f.issuer.created[0]
	if contract.Status != enums.ContractStatusSent {
		t.Fatalf("issued contract must start sent, got %s", contract.Status)
	}
	if contract.ID != *dto.ContractID {
		t.Fatalf("application points at contract %s but %s was issued", *dto.ContractID, contract.ID)
	}
	if contract.BrandID != f.brandID || contract.InfluencerID != influencerID || contract.CampaignID != f.campaign.ID {
		t.Fatalf("issued contract carries the wrong engagement: %+v", contract)
	}
	if !contract.CompensationAmount.Equal(f.campaign.CompensationAmount) {
		t.Fatalf("compensation snapshot mismatch: %s", contract.CompensationAmount)
	}
	if contract.CompensationCurrency != f.campaign.CompensationCurrency {
		t.Fatalf("currency snapshot mismatch: %s", contract.CompensationCurrency)
	}
	if len(contract.Deliverables) != 2 {
		t.Fatalf("deliverables snapshot mismatch: %v", contract.Deliverables)
	}

	want := []enums.OutboxEventType{
		enums.EventApplicationApproved,
		enums.EventContractSent,
		enums.EventContractRenderRequested,
	}
	if len(f.sink.events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(f.sink.events))
	}
	for i, eventType := range want {
		if f.sink.events[i].EventType != eventType {
			t.Fatalf("event %d: expected %s, got %s", i, eventType, f.sink.events[i].EventType)
		}
	}
	approved, ok := f.sink.events[0].Data.(payloads.ApplicationApprovedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", f.sink.events[0].Data)
	}
	if approved.ContractID != contract.ID {
		t.Fatalf("approved payload must reference the issued contract")
	}
}

func TestApproveTermsSnapshotIsIndependent(t *testing.T) {
	application := submittedApplication(uuid.New())
	f := newApplicationFixture(t, enums.CampaignStatusOpen, application)

	if _, err := f.svc.Approve(context.Background(), application.ID, f.brandUser); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	f.campaign.Deliverables[0] = "rewritten after approval"
	if f.issuer.created[0].Deliverables[0] == "rewritten after approval" {
		t.Fatalf("contract deliverables must be a copy, not a shared slice")
	}
}

func TestApproveAlreadyDecided(t *testing.T) {
	application := submittedApplication(uuid.New())
	application.Status = enums.ApplicationStatusDeclined
	f := newApplicationFixture(t, enums.CampaignStatusOpen, application)

	_, err := f.svc.Approve(context.Background(), application.ID, f.brandUser)
	assertApplicationCode(t, err, pkgerrors.CodeStateConflict)
	if len(f.issuer.created) != 0 {
		t.Fatalf("decided application must not issue a contract")
	}
}

func TestApproveLosesGuardedRace(t *testing.T) {
	application := submittedApplication(uuid.New())
	f := newApplicationFixture(t, enums.CampaignStatusOpen, application)
	f.repo.updateGuarded = func(ctx context.Context, applicationID uuid.UUID, expected enums.ApplicationStatus, updates map[string]any) (int64, error) {
		return 0, nil
	}

	_, err := f.svc.Approve(context.Background(), application.ID, f.brandUser)
	assertApplicationCode(t, err, pkgerrors.CodeStateConflict)
	if len(f.sink.events) != 0 {
		t.Fatalf("a lost race must not emit events")
	}
}

func TestApproveByForeignBrand(t *testing.T) {
	application := submittedApplication(uuid.New())
	f := newApplicationFixture(t, enums.CampaignStatusOpen, application)

	otherBrand := uuid.New()
	_, err := f.svc.Approve(context.Background(), application.ID, Actor{
		ID:      uuid.New(),
		Party:   enums.ContractPartyBrand,
		BrandID: &otherBrand,
	})
	assertApplicationCode(t, err, pkgerrors.CodeNotPermitted)
}

func TestUnknownApplication(t *testing.T) {
	f := newApplicationFixture(t, enums.CampaignStatusOpen)

	_, err := f.svc.Approve(context.Background(), uuid.New(), f.brandUser)
	assertApplicationCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeclineStoresNote(t *testing.T) {
	application := submittedApplication(uuid.New())
	f := newApplicationFixture(t, enums.CampaignStatusOpen, application)

	note := "Audience does not match the brief."
	dto, err := f.svc.Decline(context.Background(), application.ID, f.brandUser, DeclineInput{Note: &note})
	if err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if dto.Status != enums.ApplicationStatusDeclined {
		t.Fatalf("expected declined status, got %s", dto.Status)
	}
	if dto.DeclineNote == nil || *dto.DeclineNote != note {
		t.Fatalf("decline note was not stored")
	}
	if dto.DecidedAt == nil {
		t.Fatalf("decline must stamp decided_at")
	}

	if len(f.sink.events) != 1 || f.sink.events[0].EventType != enums.EventApplicationDeclined {
		t.Fatalf("expected a single application_declined event, got %v", f.sink.events)
	}
	payload := f.sink.events[0].Data.(payloads.ApplicationDeclinedEvent)
	if payload.Reason != note {
		t.Fatalf("declined payload must carry the note")
	}
}

func TestDeclineWithoutNote(t *testing.T) {
	application := submittedApplication(uuid.New())
	f := newApplicationFixture(t, enums.CampaignStatusOpen, application)

	dto, err := f.svc.Decline(context.Background(), application.ID, f.brandUser, DeclineInput{})
	if err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if dto.DeclineNote != nil {
		t.Fatalf("expected no decline note, got %q", *dto.DeclineNote)
	}
}

func TestDeclineAlreadyDecided(t *testing.T) {
	application := submittedApplication(uuid.New())
	application.Status = enums.ApplicationStatusApproved
	f := newApplicationFixture(t, enums.CampaignStatusOpen, application)

	_, err := f.svc.Decline(context.Background(), application.ID, f.brandUser, DeclineInput{})
	assertApplicationCode(t, err, pkgerrors.CodeStateConflict)
}

func TestGetScopesToParties(t *testing.T) {
	influencerID := uuid.New()
	application := submittedApplication(influencerID)
	f := newApplicationFixture(t, enums.CampaignStatusOpen, application)

	if _, err := f.svc.Get(context.Background(), application.ID, Actor{ID: influencerID, Party: enums.ContractPartyInfluencer}); err != nil {
		t.Fatalf("influencer owner read: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), application.ID, f.brandUser); err != nil {
		t.Fatalf("brand owner read: %v", err)
	}

	_, err := f.svc.Get(context.Background(), application.ID, Actor{ID: uuid.New(), Party: enums.ContractPartyInfluencer})
	assertApplicationCode(t, err, pkgerrors.CodeNotPermitted)

	otherBrand := uuid.New()
	_, err = f.svc.Get(context.Background(), application.ID, Actor{ID: uuid.New(), Party: enums.ContractPartyBrand, BrandID: &otherBrand})
	assertApplicationCode(t, err, pkgerrors.CodeNotPermitted)
}

func TestListForwardsFiltersAndCursor(t *testing.T) {
	f := newApplicationFixture(t, enums.CampaignStatusOpen)
	f.repo.listRows = []models.CampaignApplication{*submittedApplication(uuid.New())}
	f.repo.listCursor = "next-page"

	status := enums.ApplicationStatusSubmitted
	list, err := f.svc.ListForBrand(context.Background(), f.brandID, pagination.Params{Limit: 10}, ListFilters{Status: &status, CampaignID: &f.campaign.ID})
	if err != nil {
		t.Fatalf("ListForBrand: %v", err)
	}
	if len(list.Applications) != 1 || list.NextCursor != "next-page" {
		t.Fatalf("unexpected list result: %+v", list)
	}
	if f.repo.lastFilters.Status == nil || f.repo.lastFilters.CampaignID == nil {
		t.Fatalf("filters were not forwarded")
	}

	badStatus := enums.ApplicationStatus("ghosted")
	_, err = f.svc.ListForInfluencer(context.Background(), uuid.New(), pagination.Params{}, ListFilters{Status: &badStatus})
	assertApplicationCode(t, err, pkgerrors.CodeValidation)
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	repo := newStubApplicationsRepo()
	loader := newStubCampaignLoader()
	issuer := &stubContractIssuer{}
	sink := &stubEventSink{}

	if _, err := NewService(ServiceParams{Campaigns: loader, Contracts: issuer, Tx: stubTxRunner{}, Outbox: sink}); err == nil {
		t.Fatalf("expected missing repo to fail")
	}
	if _, err := NewService(ServiceParams{Repo: repo, Contracts: issuer, Tx: stubTxRunner{}, Outbox: sink}); err == nil {
		t.Fatalf("expected missing campaign loader to fail")
	}
	if _, err := NewService(ServiceParams{Repo: repo, Campaigns: loader, Tx: stubTxRunner{}, Outbox: sink}); err == nil {
		t.Fatalf("expected missing contracts repository to fail")
	}
	if _, err := NewService(ServiceParams{Repo: repo, Campaigns: loader, Contracts: issuer, Outbox: sink}); err == nil {
		t.Fatalf("expected missing tx runner to fail")
	}
	if _, err := NewService(ServiceParams{Repo: repo, Campaigns: loader, Contracts: issuer, Tx: stubTxRunner{}}); err == nil {
		t.Fatalf("expected missing outbox to fail")
	}
}

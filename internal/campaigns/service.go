package campaigns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/pagination"
)

const (
	maxTitleLength = 200
	maxBriefLength = 10000
)

// Service exposes campaign lifecycle operations.
type Service interface {
	Create(ctx context.Context, brandID uuid.UUID, input CreateCampaignInput) (*CampaignDTO, error)
	Update(ctx context.Context, brandID, campaignID uuid.UUID, input UpdateCampaignInput) (*CampaignDTO, error)
	Open(ctx context.Context, brandID, campaignID uuid.UUID) (*CampaignDTO, error)
	Close(ctx context.Context, brandID, campaignID uuid.UUID) (*CampaignDTO, error)
	Get(ctx context.Context, campaignID uuid.UUID) (*CampaignDTO, error)
	ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters ListFilters) (*CampaignList, error)
	ListOpen(ctx context.Context, params pagination.Params) (*CampaignList, error)
}

type service struct {
	repo Repository
}

// NewService wires the campaigns service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("campaigns service requires a repository")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, brandID uuid.UUID, input CreateCampaignInput) (*CampaignDTO, error) {
	if brandID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand id is required")
	}
	if err := validateBrief(input.Title, input.Brief, input.CompensationAmount.IsPositive(), input.CompensationCurrency, input.Deliverables); err != nil {
		return nil, err
	}

	campaign := &models.Campaign{
		ID:                   uuid.New(),
		BrandID:              brandID,
		Title:                strings.TrimSpace(input.Title),
		Brief:                strings.TrimSpace(input.Brief),
		Status:               enums.CampaignStatusDraft,
		CompensationAmount:   input.CompensationAmount,
		CompensationCurrency: input.CompensationCurrency,
		Deliverables:         pq.StringArray(input.Deliverables),
	}
	created, err := s.repo.Create(ctx, campaign)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create campaign")
	}
	return dtoFromModel(created), nil
}

func (s *service) Update(ctx context.Context, brandID, campaignID uuid.UUID, input UpdateCampaignInput) (*CampaignDTO, error) {
	campaign, err := s.loadOwned(ctx, brandID, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status == enums.CampaignStatusClosed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "closed campaigns cannot be edited")
	}

	updates := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" || len(title) > maxTitleLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title must be between 1 and 200 characters")
		}
		updates["title"] = title
		campaign.Title = title
	}
	if input.Brief != nil {
		brief := strings.TrimSpace(*input.Brief)
		if brief == "" || len(brief) > maxBriefLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "brief must be between 1 and 10000 characters")
		}
		updates["brief"] = brief
		campaign.Brief = brief
	}
	if input.CompensationAmount != nil {
		if !input.CompensationAmount.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "compensation amount must be positive")
		}
		updates["compensation_amount"] = *input.CompensationAmount
		campaign.CompensationAmount = *input.CompensationAmount
	}
	if input.CompensationCurrency != nil {
		if !input.CompensationCurrency.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported compensation currency")
		}
		updates["compensation_currency"] = *input.CompensationCurrency
		campaign.CompensationCurrency = *input.CompensationCurrency
	}
	if input.Deliverables != nil {
		if err := validateDeliverables(input.Deliverables); err != nil {
			return nil, err
		}
		updates["deliverables"] = pq.StringArray(input.Deliverables)
		campaign.Deliverables = pq.StringArray(input.Deliverables)
	}
	if len(updates) == 0 {
		return dtoFromModel(campaign), nil
	}

	if err := s.repo.Update(ctx, campaign.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update campaign")
	}
	return dtoFromModel(campaign), nil
}

func (s *service) Open(ctx context.Context, brandID, campaignID uuid.UUID) (*CampaignDTO, error) {
	campaign, err := s.loadOwned(ctx, brandID, campaignID)
	if err != nil {
		return nil, err
	}
	switch campaign.Status {
	case enums.CampaignStatusOpen:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "campaign is already open")
	case enums.CampaignStatusClosed:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "closed campaigns cannot be reopened")
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"status":    enums.CampaignStatusOpen,
		"opened_at": now,
	}
	if err := s.repo.Update(ctx, campaign.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to open campaign")
	}
	campaign.Status = enums.CampaignStatusOpen
	campaign.OpenedAt = &now
	return dtoFromModel(campaign), nil
}

func (s *service) Close(ctx context.Context, brandID, campaignID uuid.UUID) (*CampaignDTO, error) {
	campaign, err := s.loadOwned(ctx, brandID, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != enums.CampaignStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only open campaigns can be closed")
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"status":    enums.CampaignStatusClosed,
		"closed_at": now,
	}
	if err := s.repo.Update(ctx, campaign.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to close campaign")
	}
	campaign.Status = enums.CampaignStatusClosed
	campaign.ClosedAt = &now
	return dtoFromModel(campaign), nil
}

func (s *service) Get(ctx context.Context, campaignID uuid.UUID) (*CampaignDTO, error) {
	if campaignID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}
	campaign, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load campaign")
	}
	return dtoFromModel(campaign), nil
}

func (s *service) ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters ListFilters) (*CampaignList, error) {
	if brandID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand id is required")
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown campaign status filter")
	}
	rows, nextCursor, err := s.repo.ListForBrand(ctx, brandID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list campaigns")
	}
	return listFromRows(rows, nextCursor), nil
}

func (s *service) ListOpen(ctx context.Context, params pagination.Params) (*CampaignList, error) {
	rows, nextCursor, err := s.repo.ListOpen(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list open campaigns")
	}
	return listFromRows(rows, nextCursor), nil
}

// loadOwned fetches a campaign and checks the caller's brand owns it.
func (s *service) loadOwned(ctx context.Context, brandID, campaignID uuid.UUID) (*models.Campaign, error) {
	if brandID == uuid.Nil || campaignID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand id and campaign id are required")
	}
	campaign, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load campaign")
	}
	if campaign.BrandID != brandID {
		return nil, pkgerrors.New(pkgerrors.CodeNotPermitted, "campaign belongs to a different brand")
	}
	return campaign, nil
}

func validateBrief(title, brief string, amountPositive bool, currency enums.Currency, deliverables []string) error {
	title = strings.TrimSpace(title)
	brief = strings.TrimSpace(brief)
	if title == "" || len(title) > maxTitleLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "title must be between 1 and 200 characters")
	}
	if brief == "" || len(brief) > maxBriefLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "brief must be between 1 and 10000 characters")
	}
	if !amountPositive {
		return pkgerrors.New(pkgerrors.CodeValidation, "compensation amount must be positive")
	}
	if !currency.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unsupported compensation currency")
	}
	return validateDeliverables(deliverables)
}

func validateDeliverables(deliverables []string) error {
	if len(deliverables) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one deliverable is required")
	}
	for _, d := range deliverables {
		if strings.TrimSpace(d) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "deliverables cannot be blank")
		}
	}
	return nil
}

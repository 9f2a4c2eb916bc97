package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandquill/brandquill-backend/internal/contracts"
	"github.com/brandquill/brandquill-backend/pkg/db"
	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/outbox"
	"github.com/brandquill/brandquill-backend/pkg/outbox/payloads"
	"github.com/brandquill/brandquill-backend/pkg/pagination"
)

const (
	maxPitchLength       = 5000
	maxDeclineNoteLength = 1000

	applicationUniqueConstraint = "uq_application_campaign_influencer"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type campaignLoader interface {
	FindByID(ctx context.Context, campaignID uuid.UUID) (*models.Campaign, error)
}

// Service handles campaign applications through brand review. Approval is
// the only place a contract enters the system: it issues the `sent` document
// with the campaign's terms snapshot in the same transaction as the status
// change.
type Service interface {
	Apply(ctx context.Context, influencerID uuid.UUID, input ApplyInput) (*ApplicationDTO, error)
	Approve(ctx context.Context, applicationID uuid.UUID, actor Actor) (*ApplicationDTO, error)
	Decline(ctx context.Context, applicationID uuid.UUID, actor Actor, input DeclineInput) (*ApplicationDTO, error)
	Get(ctx context.Context, applicationID uuid.UUID, actor Actor) (*ApplicationDTO, error)
	ListForInfluencer(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters ListFilters) (*ApplicationList, error)
	ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters ListFilters) (*ApplicationList, error)
}

// ServiceParams bundle the application service dependencies.
type ServiceParams struct {
	Repo      Repository
	Campaigns campaignLoader
	Contracts contracts.Repository
	Tx        txRunner
	Outbox    outboxPublisher
}

type service struct {
	repo      Repository
	campaigns campaignLoader
	contracts contracts.Repository
	tx        txRunner
	outbox    outboxPublisher
}

// NewService builds the applications service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("applications repository required")
	}
	if params.Campaigns == nil {
		return nil, fmt.Errorf("campaign loader required")
	}
	if params.Contracts == nil {
		return nil, fmt.Errorf("contracts repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:      params.Repo,
		campaigns: params.Campaigns,
		contracts: params.Contracts,
		tx:        params.Tx,
		outbox:    params.Outbox,
	}, nil
}

func (s *service) Apply(ctx context.Context, influencerID uuid.UUID, input ApplyInput) (*ApplicationDTO, error) {
	if influencerID == uuid.Nil || input.CampaignID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "influencer id and campaign id are required")
	}
	pitch := strings.TrimSpace(input.Pitch)
	if pitch == "" || len(pitch) > maxPitchLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pitch must be between 1 and 5000 characters")
	}

	campaign, err := s.campaigns.FindByID(ctx, input.CampaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
	}
	if campaign.Status != enums.CampaignStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "campaign is not accepting applications")
	}

	// Deterministic duplicate answer; the unique index still backstops the
	// concurrent race inside the transaction.
	if _, err := s.repo.FindByCampaignAndInfluencer(ctx, input.CampaignID, influencerID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "influencer already applied to this campaign")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing application")
	}

	application := &models.CampaignApplication{
		ID:           uuid.New(),
		CampaignID:   input.CampaignID,
		InfluencerID: influencerID,
		Pitch:        pitch,
		Status:       enums.ApplicationStatusSubmitted,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, application); err != nil {
			if db.IsUniqueViolation(err, applicationUniqueConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "influencer already applied to this campaign")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create application")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventApplicationSubmitted,
			AggregateType: enums.AggregateApplication,
			AggregateID:   application.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{ActorID: influencerID, Party: enums.ContractPartyInfluencer.String()},
			Data: payloads.ApplicationSubmittedEvent{
				ApplicationID: application.ID,
				CampaignID:    campaign.ID,
				BrandID:       campaign.BrandID,
				InfluencerID:  influencerID,
			},
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit application")
	}
	return dtoFromModel(application), nil
}

// Approve marks the application approved and issues the contract in one
// transaction. The guarded status update is the authority on races: when it
// writes zero rows another decision already landed and no contract is
// created.
func (s *service) Approve(ctx context.Context, applicationID uuid.UUID, actor Actor) (*ApplicationDTO, error) {
	application, campaign, err := s.loadForDecision(ctx, applicationID, actor)
	if err != nil {
		return nil, err
	}

	contract := contractFromCampaign(campaign, application)
	now := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		issued, err := s.contracts.WithTx(tx).Create(ctx, contract)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "issue contract")
		}

		affected, err := s.repo.WithTx(tx).UpdateGuarded(ctx, application.ID, enums.ApplicationStatusSubmitted, map[string]any{
			"status":      enums.ApplicationStatusApproved,
			"contract_id": issued.ID,
			"decided_at":  now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve application")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "application was already decided")
		}
		application.Status = enums.ApplicationStatusApproved
		application.ContractID = &issued.ID
		application.DecidedAt = &now

		events := []outbox.DomainEvent{
			{
				EventType:     enums.EventApplicationApproved,
				AggregateType: enums.AggregateApplication,
				AggregateID:   application.ID,
				Version:       1,
				Actor:         decisionActor(actor),
				Data: payloads.ApplicationApprovedEvent{
					ApplicationID: application.ID,
					CampaignID:    campaign.ID,
					BrandID:       campaign.BrandID,
					InfluencerID:  application.InfluencerID,
					ContractID:    issued.ID,
				},
			},
			{
				EventType:     enums.EventContractSent,
				AggregateType: enums.AggregateContract,
				AggregateID:   issued.ID,
				Version:       1,
				Actor:         decisionActor(actor),
				Data: payloads.ContractSentEvent{
					ContractID:   issued.ID,
					BrandID:      issued.BrandID,
					InfluencerID: issued.InfluencerID,
					CampaignID:   issued.CampaignID,
				},
			},
			{
				EventType:     enums.EventContractRenderRequested,
				AggregateType: enums.AggregateContract,
				AggregateID:   issued.ID,
				Version:       1,
				Actor:         decisionActor(actor),
				Data: payloads.ContractRenderRequestedEvent{
					ContractID:   issued.ID,
					BrandID:      issued.BrandID,
					InfluencerID: issued.InfluencerID,
					CampaignID:   issued.CampaignID,
					Status:       issued.Status,
				},
			},
		}
		for _, event := range events {
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit approval events")
			}
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve application")
	}
	return dtoFromModel(application), nil
}

func (s *service) Decline(ctx context.Context, applicationID uuid.UUID, actor Actor, input DeclineInput) (*ApplicationDTO, error) {
	var note *string
	if input.Note != nil {
		trimmed := strings.TrimSpace(*input.Note)
		if len(trimmed) > maxDeclineNoteLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "decline note must be at most 1000 characters")
		}
		if trimmed != "" {
			note = &trimmed
		}
	}

	application, campaign, err := s.loadForDecision(ctx, applicationID, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.repo.WithTx(tx).UpdateGuarded(ctx, application.ID, enums.ApplicationStatusSubmitted, map[string]any{
			"status":       enums.ApplicationStatusDeclined,
			"decline_note": note,
			"decided_at":   now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decline application")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "application was already decided")
		}
		application.Status = enums.ApplicationStatusDeclined
		application.DeclineNote = note
		application.DecidedAt = &now

		reason := ""
		if note != nil {
			reason = *note
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventApplicationDeclined,
			AggregateType: enums.AggregateApplication,
			AggregateID:   application.ID,
			Version:       1,
			Actor:         decisionActor(actor),
			Data: payloads.ApplicationDeclinedEvent{
				ApplicationID: application.ID,
				CampaignID:    campaign.ID,
				BrandID:       campaign.BrandID,
				InfluencerID:  application.InfluencerID,
				Reason:        reason,
			},
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decline application")
	}
	return dtoFromModel(application), nil
}

func (s *service) Get(ctx context.Context, applicationID uuid.UUID, actor Actor) (*ApplicationDTO, error) {
	if applicationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "application id is required")
	}
	application, err := s.repo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}

	switch actor.Party {
	case enums.ContractPartyInfluencer:
		if actor.ID != application.InfluencerID {
			return nil, pkgerrors.New(pkgerrors.CodeNotPermitted, "application belongs to a different influencer")
		}
	case enums.ContractPartyBrand:
		campaign, err := s.campaigns.FindByID(ctx, application.CampaignID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
		}
		if actor.BrandID == nil || *actor.BrandID != campaign.BrandID {
			return nil, pkgerrors.New(pkgerrors.CodeNotPermitted, "application belongs to a different brand")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeNotPermitted, "unknown application viewer")
	}
	return dtoFromModel(application), nil
}

func (s *service) ListForInfluencer(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters ListFilters) (*ApplicationList, error) {
	if influencerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "influencer id is required")
	}
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	rows, nextCursor, err := s.repo.ListForInfluencer(ctx, influencerID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	return listFromRows(rows, nextCursor), nil
}

func (s *service) ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters ListFilters) (*ApplicationList, error) {
	if brandID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand id is required")
	}
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	rows, nextCursor, err := s.repo.ListForBrand(ctx, brandID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	return listFromRows(rows, nextCursor), nil
}

// loadForDecision fetches the application plus its campaign and checks the
// acting brand owns the brief.
func (s *service) loadForDecision(ctx context.Context, applicationID uuid.UUID, actor Actor) (*models.CampaignApplication, *models.Campaign, error) {
	if applicationID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "application id is required")
	}
	application, err := s.repo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}
	campaign, err := s.campaigns.FindByID(ctx, application.CampaignID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
	}
	if actor.Party != enums.ContractPartyBrand || actor.BrandID == nil || *actor.BrandID != campaign.BrandID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotPermitted, "application belongs to a different brand")
	}
	if application.Status != enums.ApplicationStatusSubmitted {
		return nil, nil, pkgerrors.New(pkgerrors.CodeStateConflict, "application was already decided")
	}
	return application, campaign, nil
}

func validateFilters(filters ListFilters) error {
	if filters.Status != nil && !filters.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown application status filter")
	}
	return nil
}

// contractFromCampaign snapshots the campaign's terms onto a fresh sent
// contract. Later campaign edits never reach documents already issued.
func contractFromCampaign(campaign *models.Campaign, application *models.CampaignApplication) *models.Contract {
	return &models.Contract{
		ID:                   uuid.New(),
		CampaignID:           campaign.ID,
		BrandID:              campaign.BrandID,
		InfluencerID:         application.InfluencerID,
		Status:               enums.ContractStatusSent,
		CompensationAmount:   campaign.CompensationAmount,
		CompensationCurrency: campaign.CompensationCurrency,
		Deliverables:         append(campaign.Deliverables[:0:0], campaign.Deliverables...),
	}
}

func decisionActor(actor Actor) *outbox.ActorRef {
	return &outbox.ActorRef{
		ActorID: actor.ID,
		Party:   actor.Party.String(),
		BrandID: actor.BrandID,
	}
}

package contracts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/metrics"
	"github.com/brandquill/brandquill-backend/pkg/outbox"
	"github.com/brandquill/brandquill-backend/pkg/outbox/payloads"
	"github.com/brandquill/brandquill-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service orchestrates the contract lifecycle: every intent resolves the
// effective document, re-checks guards on in-transaction state, applies the
// transition, evaluates the derived lock, and appends outbox events in the
// same transaction as the row mutation.
type Service interface {
	ResolveEffective(ctx context.Context, contractID uuid.UUID, actor Actor) (*ContractView, error)
	Confirm(ctx context.Context, input ConfirmInput) (*ContractView, error)
	Update(ctx context.Context, input UpdateInput) (*ContractView, error)
	Sign(ctx context.Context, input SignInput) (*ContractView, error)
	Reject(ctx context.Context, input RejectInput) (*ContractView, error)
	BrandConfirm(ctx context.Context, input BrandConfirmInput) (*ContractView, error)
	BrandSign(ctx context.Context, input SignInput) (*ContractView, error)
	Resend(ctx context.Context, input ResendInput) (*ContractView, error)
	GetSignatureImage(ctx context.Context, contractID, signatureID uuid.UUID, actor Actor) (*SignatureImageView, error)
	ListForInfluencer(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters ListFilters) (*ContractList, error)
	ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters ListFilters) (*ContractList, error)
}

// ServiceParams bundle the lifecycle service dependencies.
type ServiceParams struct {
	Repo              Repository
	Tx                txRunner
	Outbox            outboxPublisher
	Policy            FlagPolicy
	Metrics           *metrics.ContractMetrics
	SignatureMaxBytes int
}

type service struct {
	repo         Repository
	tx           txRunner
	outbox       outboxPublisher
	machine      *Machine
	policy       FlagPolicy
	metrics      *metrics.ContractMetrics
	maxSignature int
}

// NewService builds the lifecycle service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("contracts repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	policy := params.Policy
	if policy == nil {
		policy = NewDefaultFlagPolicy()
	}
	maxSignature := params.SignatureMaxBytes
	if maxSignature <= 0 {
		maxSignature = SignatureMaxBytes
	}
	return &service{
		repo:         params.Repo,
		tx:           params.Tx,
		outbox:       params.Outbox,
		machine:      NewMachine(),
		policy:       policy,
		metrics:      params.Metrics,
		maxSignature: maxSignature,
	}, nil
}

// ResolveEffective walks the resend chain from the requested id and returns
// the current document with freshly computed flags. An unknown id degrades to
// an id-only echo rather than an error; the transport layer decides whether
// that is worth a 404.
func (s *service) ResolveEffective(ctx context.Context, contractID uuid.UUID, actor Actor) (*ContractView, error) {
	if contractID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract id required")
	}

	requested, err := s.repo.FindByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ContractView{RequestedID: contractID, EffectiveID: contractID, Degraded: true}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contract")
	}
	if err := requireParty(requested, actor); err != nil {
		return nil, err
	}

	resolution, err := s.resolveFrom(ctx, s.repo, requested)
	if err != nil {
		return nil, err
	}
	return s.viewFromResolution(resolution), nil
}

// Confirm applies the influencer's sent -> confirmed transition, persisting
// the validated party fields alongside the confirmation milestone.
func (s *service) Confirm(ctx context.Context, input ConfirmInput) (*ContractView, error) {
	view, err := s.confirm(ctx, input)
	s.observe("confirm", err)
	return view, err
}

func (s *service) confirm(ctx context.Context, input ConfirmInput) (*ContractView, error) {
	if violations := ValidateInfluencerFields(input.Fields); len(violations) > 0 {
		return nil, violationError(violations)
	}

	return s.mutate(ctx, input.ContractID, func(tx *gorm.DB, repo Repository, c *models.Contract) ([]outbox.DomainEvent, error) {
		if err := requireInfluencer(c, input.Actor); err != nil {
			return nil, err
		}
		if err := s.machine.ConfirmInfluencer(c); err != nil {
			return nil, err
		}
		fields := input.Fields
		c.InfluencerFields = &fields

		updates := map[string]any{
			"status":                  c.Status,
			"influencer_confirmed":    c.InfluencerConfirmed,
			"influencer_confirmed_at": c.InfluencerConfirmedAt,
			"influencer_fields":       c.InfluencerFields,
		}
		if err := s.applyGuarded(ctx, repo, c, enums.ContractStatusSent, updates); err != nil {
			return nil, err
		}

		return []outbox.DomainEvent{{
			EventType:     enums.EventContractConfirmed,
			AggregateType: enums.AggregateContract,
			AggregateID:   c.ID,
			Version:       1,
			Actor:         actorRef(input.Actor),
			Data: payloads.ContractConfirmedEvent{
				ContractID:   c.ID,
				BrandID:      c.BrandID,
				InfluencerID: c.InfluencerID,
				CampaignID:   c.CampaignID,
				Party:        enums.ContractPartyInfluencer,
				Status:       c.Status,
				SentAt:       c.CreatedAt,
			},
		}}, nil
	}, input.Actor)
}

// Update persists a field-only revision of an already confirmed contract.
// The status never moves; the edit-permission flag is the policy gate.
func (s *service) Update(ctx context.Context, input UpdateInput) (*ContractView, error) {
	view, err := s.update(ctx, input)
	s.observe("update", err)
	return view, err
}

func (s *service) update(ctx context.Context, input UpdateInput) (*ContractView, error) {
	if violations := ValidateInfluencerFields(input.Fields); len(violations) > 0 {
		return nil, violationError(violations)
	}

	return s.mutate(ctx, input.ContractID, func(tx *gorm.DB, repo Repository, c *models.Contract) ([]outbox.DomainEvent, error) {
		if err := requireInfluencer(c, input.Actor); err != nil {
			return nil, err
		}
		if err := s.machine.GuardUpdate(c); err != nil {
			return nil, err
		}
		if flags := clampFlags(c, s.policy.Compute(c)); !flags.CanEditInfluencerFields {
			return nil, pkgerrors.New(pkgerrors.CodeNotPermitted, "influencer fields are no longer editable")
		}
		fields := input.Fields
		c.InfluencerFields = &fields

		updates := map[string]any{"influencer_fields": c.InfluencerFields}
		if err := s.applyGuarded(ctx, repo, c, enums.ContractStatusConfirmed, updates); err != nil {
			return nil, err
		}

		return []outbox.DomainEvent{{
			EventType:     enums.EventContractFieldsUpdated,
			AggregateType: enums.AggregateContract,
			AggregateID:   c.ID,
			Version:       1,
			Actor:         actorRef(input.Actor),
			Data: payloads.ContractFieldsUpdatedEvent{
				ContractID:   c.ID,
				BrandID:      c.BrandID,
				InfluencerID: c.InfluencerID,
				CampaignID:   c.CampaignID,
			},
		}}, nil
	}, input.Actor)
}

// Sign applies the influencer's confirmed -> signed transition and then
// evaluates the derived lock.
func (s *service) Sign(ctx context.Context, input SignInput) (*ContractView, error) {
	view, err := s.sign(ctx, input)
	s.observe("sign", err)
	return view, err
}

func (s *service) sign(ctx context.Context, input SignInput) (*ContractView, error) {
	mime, err := checkSignatureImage(input.Image, s.maxSignature)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, input.ContractID, func(tx *gorm.DB, repo Repository, c *models.Contract) ([]outbox.DomainEvent, error) {
		if err := requireInfluencer(c, input.Actor); err != nil {
			return nil, err
		}
		if flags := clampFlags(c, s.policy.Compute(c)); !flags.CanSignInfluencer {
			// Keep the conflict taxonomy: name the state problem when there
			// is one, and reserve NOT_PERMITTED for a pure policy denial.
			if err := guardMutable(c); err != nil {
				return nil, err
			}
			if !c.InfluencerConfirmed {
				return nil, pkgerrors.New(pkgerrors.CodeNotPermitted, "influencer must confirm before signing")
			}
			if c.InfluencerSigned {
				return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "influencer already signed")
			}
			return nil, pkgerrors.New(pkgerrors.CodeNotPermitted, "signing is not currently permitted")
		}

		image, err := repo.CreateSignatureImage(ctx, &models.SignatureImage{
			ContractID: c.ID,
			Party:      enums.ContractPartyInfluencer,
			MimeType:   mime,
			ByteSize:   len(input.Image),
			Data:       input.Image,
			UploadedBy: input.Actor.ID,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store signature image")
		}

		preStatus := c.Status
		if err := s.machine.SignInfluencer(c, image.ID); err != nil {
			return nil, err
		}
		lockFired := s.machine.EvaluateLock(c)

		updates := map[string]any{
			"status":                  c.Status,
			"influencer_signed":       c.InfluencerSigned,
			"influencer_signed_at":    c.InfluencerSignedAt,
			"influencer_signature_id": c.InfluencerSignatureID,
		}
		if lockFired {
			updates["locked_at"] = c.LockedAt
		}
		if err := s.applyGuarded(ctx, repo, c, preStatus, updates); err != nil {
			return nil, err
		}

		events := []outbox.DomainEvent{{
			EventType:     enums.EventContractSigned,
			AggregateType: enums.AggregateContract,
			AggregateID:   c.ID,
			Version:       1,
			Actor:         actorRef(input.Actor),
			Data: payloads.ContractSignedEvent{
				ContractID:       c.ID,
				BrandID:          c.BrandID,
				InfluencerID:     c.InfluencerID,
				CampaignID:       c.CampaignID,
				Party:            enums.ContractPartyInfluencer,
				Status:           c.Status,
				SignatureImageID: image.ID,
				SentAt:           c.CreatedAt,
			},
		}}
		if lockFired {
			events = append(events, lockedEvent(c, input.Actor))
		}
		return events, nil
	}, input.Actor)
}

// Reject applies the influencer's sent|confirmed -> rejected transition.
func (s *service) Reject(ctx context.Context, input RejectInput) (*ContractView, error) {
	view, err := s.reject(ctx, input)
	s.observe("reject", err)
	return view, err
}

func (s *service) reject(ctx context.Context, input RejectInput) (*ContractView, error) {
	return s.mutate(ctx, input.ContractID, func(tx *gorm.DB, repo Repository, c *models.Contract) ([]outbox.DomainEvent, error) {
		if err := requireInfluencer(c, input.Actor); err != nil {
			return nil, err
		}
		preStatus := c.Status
		if err := s.machine.Reject(c, input.Reason); err != nil {
			return nil, err
		}

		updates := map[string]any{
			"status":           c.Status,
			"rejection_reason": c.RejectionReason,
		}
		if err := s.applyGuarded(ctx, repo, c, preStatus, updates); err != nil {
			return nil, err
		}

		reason := ""
		if input.Reason != nil {
			reason = *input.Reason
		}
		return []outbox.DomainEvent{{
			EventType:     enums.EventContractRejected,
			AggregateType: enums.AggregateContract,
			AggregateID:   c.ID,
			Version:       1,
			Actor:         actorRef(input.Actor),
			Data: payloads.ContractRejectedEvent{
				ContractID:   c.ID,
				BrandID:      c.BrandID,
				InfluencerID: c.InfluencerID,
				CampaignID:   c.CampaignID,
				Party:        enums.ContractPartyInfluencer,
				Reason:       reason,
				SentAt:       c.CreatedAt,
			},
		}}, nil
	}, input.Actor)
}

// BrandConfirm records the brand's independent confirmation milestone.
func (s *service) BrandConfirm(ctx context.Context, input BrandConfirmInput) (*ContractView, error) {
	view, err := s.brandConfirm(ctx, input)
	s.observe("brand_confirm", err)
	return view, err
}

func (s *service) brandConfirm(ctx context.Context, input BrandConfirmInput) (*ContractView, error) {
	return s.mutate(ctx, input.ContractID, func(tx *gorm.DB, repo Repository, c *models.Contract) ([]outbox.DomainEvent, error) {
		if err := requireBrand(c, input.Actor); err != nil {
			return nil, err
		}
		preStatus := c.Status
		if err := s.machine.ConfirmBrand(c); err != nil {
			return nil, err
		}
		lockFired := s.machine.EvaluateLock(c)

		updates := map[string]any{
			"brand_confirmed":    c.BrandConfirmed,
			"brand_confirmed_at": c.BrandConfirmedAt,
		}
		if lockFired {
			updates["status"] = c.Status
			updates["locked_at"] = c.LockedAt
		}
		if err := s.applyGuarded(ctx, repo, c, preStatus, updates); err != nil {
			return nil, err
		}

		events := []outbox.DomainEvent{{
			EventType:     enums.EventContractConfirmed,
			AggregateType: enums.AggregateContract,
			AggregateID:   c.ID,
			Version:       1,
			Actor:         actorRef(input.Actor),
			Data: payloads.ContractConfirmedEvent{
				ContractID:   c.ID,
				BrandID:      c.BrandID,
				InfluencerID: c.InfluencerID,
				CampaignID:   c.CampaignID,
				Party:        enums.ContractPartyBrand,
				Status:       c.Status,
				SentAt:       c.CreatedAt,
			},
		}}
		if lockFired {
			events = append(events, lockedEvent(c, input.Actor))
		}
		return events, nil
	}, input.Actor)
}

// BrandSign records the brand's counter-signature, then evaluates the lock.
func (s *service) BrandSign(ctx context.Context, input SignInput) (*ContractView, error) {
	view, err := s.brandSign(ctx, input)
	s.observe("brand_sign", err)
	return view, err
}

func (s *service) brandSign(ctx context.Context, input SignInput) (*ContractView, error) {
	mime, err := checkSignatureImage(input.Image, s.maxSignature)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, input.ContractID, func(tx *gorm.DB, repo Repository, c *models.Contract) ([]outbox.DomainEvent, error) {
		if err := requireBrand(c, input.Actor); err != nil {
			return nil, err
		}

		image, err := repo.CreateSignatureImage(ctx, &models.SignatureImage{
			ContractID: c.ID,
			Party:      enums.ContractPartyBrand,
			MimeType:   mime,
			ByteSize:   len(input.Image),
			Data:       input.Image,
			UploadedBy: input.Actor.ID,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store signature image")
		}

		preStatus := c.Status
		if err := s.machine.SignBrand(c, image.ID); err != nil {
			return nil, err
		}
		lockFired := s.machine.EvaluateLock(c)

		updates := map[string]any{
			"brand_signed":       c.BrandSigned,
			"brand_signed_at":    c.BrandSignedAt,
			"brand_signature_id": c.BrandSignatureID,
		}
		if lockFired {
			updates["status"] = c.Status
			updates["locked_at"] = c.LockedAt
		}
		if err := s.applyGuarded(ctx, repo, c, preStatus, updates); err != nil {
			return nil, err
		}

		events := []outbox.DomainEvent{{
			EventType:     enums.EventContractSigned,
			AggregateType: enums.AggregateContract,
			AggregateID:   c.ID,
			Version:       1,
			Actor:         actorRef(input.Actor),
			Data: payloads.ContractSignedEvent{
				ContractID:       c.ID,
				BrandID:          c.BrandID,
				InfluencerID:     c.InfluencerID,
				CampaignID:       c.CampaignID,
				Party:            enums.ContractPartyBrand,
				Status:           c.Status,
				SignatureImageID: image.ID,
				SentAt:           c.CreatedAt,
			},
		}}
		if lockFired {
			events = append(events, lockedEvent(c, input.Actor))
		}
		return events, nil
	}, input.Actor)
}

// Resend issues a replacement contract: the effective document's fields and
// terms are carried onto a fresh row in sent status, party milestones reset,
// and the old row is pointed at its successor exactly once.
func (s *service) Resend(ctx context.Context, input ResendInput) (*ContractView, error) {
	view, err := s.resend(ctx, input)
	s.observe("resend", err)
	return view, err
}

func (s *service) resend(ctx context.Context, input ResendInput) (*ContractView, error) {
	if input.ContractID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract id required")
	}

	resolution, err := s.resolveForMutation(ctx, s.repo, input.ContractID)
	if err != nil {
		return nil, err
	}

	var successor *models.Contract
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		old, err := repo.FindByID(ctx, resolution.EffectiveID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "contract not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contract")
		}
		if err := requireBrand(old, input.Actor); err != nil {
			return err
		}
		if old.Locked() {
			return pkgerrors.New(pkgerrors.CodeAlreadyLocked, "contract is locked")
		}
		if old.Superseded() {
			return pkgerrors.New(pkgerrors.CodeAlreadySuperseded, "contract has been superseded")
		}

		successor = cloneForResend(old, input.Terms)
		if _, err := repo.Create(ctx, successor); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create replacement contract")
		}

		affected, err := repo.MarkSuperseded(ctx, old.ID, successor.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark contract superseded")
		}
		if affected == 0 {
			return s.classifyConflict(ctx, repo, old.ID)
		}

		events := []outbox.DomainEvent{
			{
				EventType:     enums.EventContractResent,
				AggregateType: enums.AggregateContract,
				AggregateID:   successor.ID,
				Version:       1,
				Actor:         actorRef(input.Actor),
				Data: payloads.ContractResentEvent{
					OriginalContractID: old.ID,
					ContractID:         successor.ID,
					BrandID:            successor.BrandID,
					InfluencerID:       successor.InfluencerID,
					CampaignID:         successor.CampaignID,
					ResendDepth:        resolution.Ancestors + 1,
					SentAt:             old.CreatedAt,
				},
			},
			renderEvent(successor, input.Actor),
		}
		for _, event := range events {
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit outbox event")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ContractView{
		RequestedID: input.ContractID,
		EffectiveID: successor.ID,
		ChainDepth:  resolution.Depth + 1,
		Contract:    detailFromModel(successor, clampFlags(successor, s.policy.Compute(successor))),
	}, nil
}

// GetSignatureImage returns a stored signature bitmap for a contract the
// actor is party to. The image is addressed through its owning row, so a
// signature from another engagement (or another row of the same chain) never
// resolves.
func (s *service) GetSignatureImage(ctx context.Context, contractID, signatureID uuid.UUID, actor Actor) (*SignatureImageView, error) {
	if contractID == uuid.Nil || signatureID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract id and signature id required")
	}

	image, err := s.repo.FindSignatureImage(ctx, signatureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "signature image not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load signature image")
	}
	if image.ContractID != contractID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "signature image not found")
	}

	contract, err := s.repo.FindByID(ctx, image.ContractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contract not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contract")
	}
	if err := requireParty(contract, actor); err != nil {
		return nil, err
	}

	return signatureViewFromModel(image), nil
}

func (s *service) ListForInfluencer(ctx context.Context, influencerID uuid.UUID, params pagination.Params, filters ListFilters) (*ContractList, error) {
	if influencerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "influencer id required")
	}
	page, err := s.repo.ListForInfluencer(ctx, influencerID, params, filters)
	if err != nil {
		return nil, classifyListError(err)
	}
	return s.listFromPage(page), nil
}

func (s *service) ListForBrand(ctx context.Context, brandID uuid.UUID, params pagination.Params, filters ListFilters) (*ContractList, error) {
	if brandID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand id required")
	}
	page, err := s.repo.ListForBrand(ctx, brandID, params, filters)
	if err != nil {
		return nil, classifyListError(err)
	}
	return s.listFromPage(page), nil
}

// mutate is the shared orchestration for single-document intents: resolve the
// effective contract, open a transaction, re-fetch the row, run the intent
// body, emit its events plus the render request, and project the post-image.
func (s *service) mutate(
	ctx context.Context,
	contractID uuid.UUID,
	apply func(tx *gorm.DB, repo Repository, c *models.Contract) ([]outbox.DomainEvent, error),
	actor Actor,
) (*ContractView, error) {
	if contractID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract id required")
	}

	resolution, err := s.resolveForMutation(ctx, s.repo, contractID)
	if err != nil {
		return nil, err
	}

	var mutated *models.Contract
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		// Fresh read inside the transaction: flags and status resolved before
		// the transaction are treated as stale hints, never as guards.
		c, err := repo.FindByID(ctx, resolution.EffectiveID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "contract not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contract")
		}

		events, err := apply(tx, repo, c)
		if err != nil {
			return err
		}
		mutated = c

		events = append(events, renderEvent(c, actor))
		for _, event := range events {
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit outbox event")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ContractView{
		RequestedID: contractID,
		EffectiveID: mutated.ID,
		ChainDepth:  resolution.Depth,
		Contract:    detailFromModel(mutated, clampFlags(mutated, s.policy.Compute(mutated))),
	}, nil
}

// applyGuarded persists the updates with the status/terminal-column guard and
// reclassifies a zero-row result from a fresh read, so a concurrent lock or
// resend surfaces as its own typed conflict instead of a silent overwrite.
func (s *service) applyGuarded(ctx context.Context, repo Repository, c *models.Contract, expected enums.ContractStatus, updates map[string]any) error {
	affected, err := repo.UpdateGuarded(ctx, c.ID, expected, updates)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist contract transition")
	}
	if affected == 0 {
		return s.classifyConflict(ctx, repo, c.ID)
	}
	return nil
}

// classifyConflict reads the row again to name the concurrent writer that won.
func (s *service) classifyConflict(ctx context.Context, repo Repository, contractID uuid.UUID) error {
	current, err := repo.FindByID(ctx, contractID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload contract after conflict")
	}
	if current.Locked() {
		return pkgerrors.New(pkgerrors.CodeAlreadyLocked, "contract was locked by a concurrent action")
	}
	if current.Superseded() {
		return pkgerrors.New(pkgerrors.CodeAlreadySuperseded, "contract was superseded by a concurrent resend")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "contract changed state during the request")
}

// resolveForMutation resolves the effective document for a write. Unlike
// reads, an unknown id here is an error: there is nothing to mutate.
func (s *service) resolveForMutation(ctx context.Context, repo Repository, contractID uuid.UUID) (*ChainResolution, error) {
	requested, err := repo.FindByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contract not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contract")
	}
	return s.resolveFrom(ctx, repo, requested)
}

// resolveFrom loads the scoped chain for a known row and walks it.
func (s *service) resolveFrom(ctx context.Context, repo Repository, requested *models.Contract) (*ChainResolution, error) {
	chain, err := repo.ListChain(ctx, requested.BrandID, requested.InfluencerID, requested.CampaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contract chain")
	}
	resolution := ResolveChain(requested.ID, chain)
	if resolution.Contract == nil {
		// The requested row exists but the scope query missed it; fall back to
		// the row itself rather than reporting a phantom.
		resolution.Contract = requested
		resolution.EffectiveID = requested.ID
		resolution.Degraded = false
	}
	return &resolution, nil
}

func (s *service) viewFromResolution(resolution *ChainResolution) *ContractView {
	view := &ContractView{
		RequestedID: resolution.RequestedID,
		EffectiveID: resolution.EffectiveID,
		ChainDepth:  resolution.Depth,
		Degraded:    resolution.Degraded,
	}
	if resolution.Contract != nil {
		view.Contract = detailFromModel(resolution.Contract, clampFlags(resolution.Contract, s.policy.Compute(resolution.Contract)))
	}
	return view
}

func (s *service) listFromPage(page *ContractPage) *ContractList {
	summaries := make([]ContractSummary, 0, len(page.Rows))
	for i := range page.Rows {
		row := &page.Rows[i]
		summaries = append(summaries, summaryFromModel(row, clampFlags(row, s.policy.Compute(row))))
	}
	return &ContractList{Contracts: summaries, NextCursor: page.NextCursor}
}

// observe records the intent outcome on the transition counter.
func (s *service) observe(intent string, err error) {
	s.metrics.IncTransition(intent, outcomeLabel(err))
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeValidation:
			return "validation_failed"
		case pkgerrors.CodeNotPermitted:
			return "not_permitted"
		case pkgerrors.CodeAlreadyLocked:
			return "already_locked"
		case pkgerrors.CodeAlreadySuperseded:
			return "already_superseded"
		case pkgerrors.CodeStateConflict:
			return "state_conflict"
		case pkgerrors.CodeNotFound:
			return "not_found"
		}
	}
	return "error"
}

func classifyListError(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contracts")
}

// requireParty admits either side of the contract for reads.
func requireParty(c *models.Contract, actor Actor) error {
	switch actor.Party {
	case enums.ContractPartyInfluencer:
		return requireInfluencer(c, actor)
	case enums.ContractPartyBrand:
		return requireBrand(c, actor)
	default:
		return pkgerrors.New(pkgerrors.CodeNotPermitted, "unknown contract party")
	}
}

func requireInfluencer(c *models.Contract, actor Actor) error {
	if actor.Party != enums.ContractPartyInfluencer || actor.ID != c.InfluencerID {
		return pkgerrors.New(pkgerrors.CodeNotPermitted, "contract does not belong to this influencer")
	}
	return nil
}

func requireBrand(c *models.Contract, actor Actor) error {
	if actor.Party != enums.ContractPartyBrand || actor.BrandID == nil || *actor.BrandID != c.BrandID {
		return pkgerrors.New(pkgerrors.CodeNotPermitted, "contract does not belong to this brand")
	}
	return nil
}

func actorRef(actor Actor) *outbox.ActorRef {
	return &outbox.ActorRef{
		ActorID: actor.ID,
		Party:   actor.Party.String(),
		BrandID: actor.BrandID,
	}
}

func lockedEvent(c *models.Contract, actor Actor) outbox.DomainEvent {
	return outbox.DomainEvent{
		EventType:     enums.EventContractLocked,
		AggregateType: enums.AggregateContract,
		AggregateID:   c.ID,
		Version:       1,
		Actor:         actorRef(actor),
		Data: payloads.ContractLockedEvent{
			ContractID:   c.ID,
			BrandID:      c.BrandID,
			InfluencerID: c.InfluencerID,
			CampaignID:   c.CampaignID,
			LockedAt:     *c.LockedAt,
			SentAt:       c.CreatedAt,
		},
	}
}

// renderEvent asks the PDF collaborator to refresh the rendered document
// after every successful mutation.
func renderEvent(c *models.Contract, actor Actor) outbox.DomainEvent {
	return outbox.DomainEvent{
		EventType:     enums.EventContractRenderRequested,
		AggregateType: enums.AggregateContract,
		AggregateID:   c.ID,
		Version:       1,
		Actor:         actorRef(actor),
		Data: payloads.ContractRenderRequestedEvent{
			ContractID:   c.ID,
			BrandID:      c.BrandID,
			InfluencerID: c.InfluencerID,
			CampaignID:   c.CampaignID,
			Status:       c.Status,
		},
	}
}

// cloneForResend copies the engagement onto a fresh row in sent status with
// party milestones cleared. Influencer fields carry forward so the influencer
// does not re-enter identity data; terms take the optional patch.
func cloneForResend(old *models.Contract, terms *TermsPatch) *models.Contract {
	successor := &models.Contract{
		CampaignID:           old.CampaignID,
		BrandID:              old.BrandID,
		InfluencerID:         old.InfluencerID,
		Status:               enums.ContractStatusSent,
		CompensationAmount:   old.CompensationAmount,
		CompensationCurrency: old.CompensationCurrency,
		Deliverables:         append(old.Deliverables[:0:0], old.Deliverables...),
		ResendOfID:           &old.ID,
	}
	if old.InfluencerFields != nil {
		fields := *old.InfluencerFields
		successor.InfluencerFields = &fields
	}
	if terms != nil {
		if terms.CompensationAmount != nil {
			successor.CompensationAmount = *terms.CompensationAmount
		}
		if terms.CompensationCurrency != nil {
			successor.CompensationCurrency = *terms.CompensationCurrency
		}
		if terms.Deliverables != nil {
			successor.Deliverables = append([]string(nil), terms.Deliverables...)
		}
	}
	return successor
}

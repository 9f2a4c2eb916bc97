package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/brandquill/brandquill-backend/pkg/logger"
	"github.com/brandquill/brandquill-backend/pkg/outbox"
	"github.com/brandquill/brandquill-backend/pkg/outbox/payloads"
)

const (
	defaultReminderAge   = 72 * time.Hour
	defaultReminderBatch = 200
)

// ContractRemindersJobParams configure the stale-contract reminder job.
type ContractRemindersJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Contracts   staleContractReader
	Outbox      reminderEmitter
	ReminderAge time.Duration
	BatchSize   int
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type staleContractReader interface {
	FindStaleSent(ctx context.Context, cutoff time.Time, limit int) ([]models.Contract, error)
}

type reminderEmitter interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// NewContractRemindersJob builds the job that nudges influencers about
// contracts still sitting in sent past the reminder age.
func NewContractRemindersJob(params ContractRemindersJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Contracts == nil {
		return nil, fmt.Errorf("contracts repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	age := params.ReminderAge
	if age <= 0 {
		age = defaultReminderAge
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultReminderBatch
	}
	return &contractRemindersJob{
		logg:      params.Logger,
		db:        params.DB,
		contracts: params.Contracts,
		outbox:    params.Outbox,
		age:       age,
		batch:     batch,
		now:       time.Now,
	}, nil
}

type contractRemindersJob struct {
	logg      *logger.Logger
	db        txRunner
	contracts staleContractReader
	outbox    reminderEmitter
	age       time.Duration
	batch     int
	now       func() time.Time
}

func (j *contractRemindersJob) Name() string { return "contract-reminders" }

func (j *contractRemindersJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	cutoff := now.Add(-j.age)
	contracts, err := j.contracts.FindStaleSent(ctx, cutoff, j.batch)
	if err != nil {
		return fmt.Errorf("query stale sent contracts: %w", err)
	}

	var errs error
	reminded := 0
	for _, contract := range contracts {
		if err := j.emitReminder(ctx, contract, now); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("contract %s: %w", contract.ID, err))
			continue
		}
		reminded++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"stale":     len(contracts),
		"reminded":  reminded,
		"age_hours": int(j.age.Hours()),
	})
	j.logg.Info(logCtx, "contract reminder loop complete")
	return errs
}

// emitReminder queues at most one reminder per contract; the outbox unique
// index makes replays and concurrent instances converge on a single row.
func (j *contractRemindersJob) emitReminder(ctx context.Context, contract models.Contract, now time.Time) error {
	pendingHours := int(now.Sub(contract.CreatedAt).Hours())
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		event := outbox.DomainEvent{
			EventType:     enums.EventContractReminderDue,
			AggregateType: enums.AggregateContract,
			AggregateID:   contract.ID,
			Version:       1,
			OccurredAt:    now,
			Data: payloads.ContractReminderDueEvent{
				ContractID:   contract.ID,
				BrandID:      contract.BrandID,
				InfluencerID: contract.InfluencerID,
				CampaignID:   contract.CampaignID,
				Status:       contract.Status,
				PendingHours: pendingHours,
			},
		}
		return j.outbox.EmitIfNotExists(ctx, tx, event)
	})
}

package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/brandquill/brandquill-backend/pkg/logger"
	"github.com/brandquill/brandquill-backend/pkg/outbox"
	"github.com/brandquill/brandquill-backend/pkg/outbox/payloads"
)

func TestContractRemindersJobEmitsPerStaleContract(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	first := staleContract(now, 80*time.Hour)
	second := staleContract(now, 100*time.Hour)
	reader := &fakeStaleReader{contracts: []models.Contract{first, second}}
	emitter := &fakeReminderEmitter{}
	job := newContractRemindersTestJob(t, reader, emitter)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedCutoff := now.Add(-defaultReminderAge)
	if !reader.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, reader.lastCutoff)
	}
	if reader.lastLimit != defaultReminderBatch {
		t.Fatalf("expected batch %d, got %d", defaultReminderBatch, reader.lastLimit)
	}
	if len(emitter.events) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(emitter.events))
	}

	event := emitter.events[0]
	if event.EventType != enums.EventContractReminderDue {
		t.Fatalf("unexpected event type %s", event.EventType)
	}
	if event.AggregateType != enums.AggregateContract || event.AggregateID != first.ID {
		t.Fatalf("unexpected aggregate: %s %s", event.AggregateType, event.AggregateID)
	}
	payload, ok := event.Data.(payloads.ContractReminderDueEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", event.Data)
	}
	if payload.PendingHours != 80 {
		t.Fatalf("expected 80 pending hours, got %d", payload.PendingHours)
	}
	if payload.InfluencerID != first.InfluencerID {
		t.Fatalf("influencer mismatch: %s", payload.InfluencerID)
	}

	if got := emitter.events[1].Data.(payloads.ContractReminderDueEvent).PendingHours; got != 100 {
		t.Fatalf("expected 100 pending hours for second contract, got %d", got)
	}
}

func TestContractRemindersJobAggregatesItemFailures(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	broken := staleContract(now, 90*time.Hour)
	healthy := staleContract(now, 75*time.Hour)
	reader := &fakeStaleReader{contracts: []models.Contract{broken, healthy}}
	emitter := &fakeReminderEmitter{failFor: broken.ID, failErr: errors.New("emit boom")}
	job := newContractRemindersTestJob(t, reader, emitter)
	job.now = func() time.Time { return now }

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if len(emitter.events) != 1 {
		t.Fatalf("one failure must not stop the loop, emitted %d", len(emitter.events))
	}
	if emitter.events[0].AggregateID != healthy.ID {
		t.Fatalf("healthy contract skipped: %s", emitter.events[0].AggregateID)
	}
}

func TestContractRemindersJobPropagatesReaderError(t *testing.T) {
	reader := &fakeStaleReader{err: errors.New("db down")}
	job := newContractRemindersTestJob(t, reader, &fakeReminderEmitter{})

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func staleContract(now time.Time, age time.Duration) models.Contract {
	return models.Contract{
		ID:           uuid.New(),
		CampaignID:   uuid.New(),
		BrandID:      uuid.New(),
		InfluencerID: uuid.New(),
		Status:       enums.ContractStatusSent,
		CreatedAt:    now.Add(-age),
	}
}

func newContractRemindersTestJob(t *testing.T, reader *fakeStaleReader, emitter *fakeReminderEmitter) *contractRemindersJob {
	t.Helper()
	jobIface, err := NewContractRemindersJob(ContractRemindersJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		DB:        remindersTxRunner{},
		Contracts: reader,
		Outbox:    emitter,
	})
	if err != nil {
		t.Fatalf("NewContractRemindersJob: %v", err)
	}
	job, ok := jobIface.(*contractRemindersJob)
	if !ok {
		t.Fatalf("expected contractRemindersJob, got %T", jobIface)
	}
	return job
}

type fakeStaleReader struct {
	lastCutoff time.Time
	lastLimit  int
	contracts  []models.Contract
	err        error
}

func (f *fakeStaleReader) FindStaleSent(ctx context.Context, cutoff time.Time, limit int) ([]models.Contract, error) {
	f.lastCutoff = cutoff
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.contracts, nil
}

type fakeReminderEmitter struct {
	events  []outbox.DomainEvent
	failFor uuid.UUID
	failErr error
}

func (f *fakeReminderEmitter) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if f.failErr != nil && event.AggregateID == f.failFor {
		return f.failErr
	}
	f.events = append(f.events, event)
	return nil
}

type remindersTxRunner struct{}

func (remindersTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

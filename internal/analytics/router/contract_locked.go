package router

import (
	"context"
	"fmt"

	"github.com/brandquill/brandquill-backend/internal/analytics"
	"github.com/brandquill/brandquill-backend/internal/analytics/types"
	"github.com/brandquill/brandquill-backend/pkg/logger"
	"github.com/brandquill/brandquill-backend/pkg/outbox/payloads"
)

type contractLockedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newContractLockedHandler(writer Writer, logg *logger.Logger) Handler {
	return &contractLockedHandler{writer: writer, logg: logg}
}

func (h *contractLockedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.ContractLockedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for contract_locked: %w", types.ErrPoisonEvent)
	}

	fields := map[string]any{
		"event_type":  envelope.EventType,
		"contract_id": event.ContractID,
		"locked_at":   event.LockedAt,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	// The lock milestone is stamped by the state machine; prefer it over the
	// envelope timestamp so the funnel measures the domain moment.
	row, err := buildFunnelRow(envelope, event.LockedAt, funnelIDs{
		ContractID:   event.ContractID,
		CampaignID:   event.CampaignID,
		BrandID:      event.BrandID,
		InfluencerID: event.InfluencerID,
	}, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build funnel row", err)
		return err
	}
	row.HoursSinceSent = analytics.HoursSinceSent(event.SentAt, row.OccurredAt)

	if err := h.writer.InsertFunnel(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert funnel row", err)
		return err
	}

	h.logg.Info(logCtx, "contract_locked handler inserted funnel row")
	return nil
}

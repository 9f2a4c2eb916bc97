package router

import (
	"context"
	"fmt"
	"time"

	"github.com/brandquill/brandquill-backend/internal/analytics"
	"github.com/brandquill/brandquill-backend/internal/analytics/types"
	"github.com/brandquill/brandquill-backend/pkg/logger"
	"github.com/brandquill/brandquill-backend/pkg/outbox/payloads"
)

type contractConfirmedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newContractConfirmedHandler(writer Writer, logg *logger.Logger) Handler {
	return &contractConfirmedHandler{writer: writer, logg: logg}
}

func (h *contractConfirmedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.ContractConfirmedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for contract_confirmed: %w", types.ErrPoisonEvent)
	}

	fields := map[string]any{
		"event_type":  envelope.EventType,
		"contract_id": event.ContractID,
		"party":       event.Party,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	row, err := buildFunnelRow(envelope, time.Time{}, funnelIDs{
		ContractID:   event.ContractID,
		CampaignID:   event.CampaignID,
		BrandID:      event.BrandID,
		InfluencerID: event.InfluencerID,
	}, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build funnel row", err)
		return err
	}
	row.Party = stringPtr(event.Party.String())
	row.HoursSinceSent = analytics.HoursSinceSent(event.SentAt, row.OccurredAt)

	if err := h.writer.InsertFunnel(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert funnel row", err)
		return err
	}

	h.logg.Info(logCtx, "contract_confirmed handler inserted funnel row")
	return nil
}

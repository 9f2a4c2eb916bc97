package router

import (
	"context"
	"fmt"
	"time"

	"github.com/brandquill/brandquill-backend/internal/analytics/types"
	"github.com/brandquill/brandquill-backend/pkg/logger"
	"github.com/brandquill/brandquill-backend/pkg/outbox/payloads"
)

type contractSentHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newContractSentHandler(writer Writer, logg *logger.Logger) Handler {
	return &contractSentHandler{writer: writer, logg: logg}
}

func (h *contractSentHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.ContractSentEvent)
	if !ok {
		return fmt.Errorf("invalid payload for contract_sent: %w", types.ErrPoisonEvent)
	}

	fields := map[string]any{
		"event_type":  envelope.EventType,
		"contract_id": event.ContractID,
		"campaign_id": event.CampaignID,
		"brand_id":    event.BrandID,
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

	// The sent event is the funnel entry: zero elapsed time, and a fresh
	// document sits at depth zero. A sent event referencing a predecessor
	// leaves the depth to the resend event that knows it.
	row.HoursSinceSent = float64Ptr(0)
	if event.ResendOfID == nil {
		row.ResendDepth = int64Ptr(0)
	}

	if err := h.writer.InsertFunnel(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert funnel row", err)
		return err
	}

	h.logg.Info(logCtx, "contract_sent handler inserted funnel row")
	return nil
}

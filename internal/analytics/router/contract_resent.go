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

type contractResentHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newContractResentHandler(writer Writer, logg *logger.Logger) Handler {
	return &contractResentHandler{writer: writer, logg: logg}
}

func (h *contractResentHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.ContractResentEvent)
	if !ok {
		return fmt.Errorf("invalid payload for contract_resent: %w", types.ErrPoisonEvent)
	}

	fields := map[string]any{
		"event_type":   envelope.EventType,
		"contract_id":  event.ContractID,
		"original_id":  event.OriginalContractID,
		"resend_depth": event.ResendDepth,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	// The row describes the replacement document; the superseded one is kept
	// in the payload column. Elapsed hours measure how long the old document
	// sat before the brand replaced it.
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
	row.ResendDepth = int64Ptr(int64(event.ResendDepth))
	row.HoursSinceSent = analytics.HoursSinceSent(event.SentAt, row.OccurredAt)

	if err := h.writer.InsertFunnel(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert funnel row", err)
		return err
	}

	h.logg.Info(logCtx, "contract_resent handler inserted funnel row")
	return nil
}

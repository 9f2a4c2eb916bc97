package router

import (
	"context"
	"fmt"
	"time"

	"github.com/brandquill/brandquill-backend/internal/analytics/types"
	"github.com/brandquill/brandquill-backend/pkg/logger"
	"github.com/brandquill/brandquill-backend/pkg/outbox/payloads"
)

// Application events sit at the top of the funnel: submitted rows have no
// contract yet, approved rows link the contract issued in the same
// transaction. Contract timing metrics start on the contract_sent row.

type applicationSubmittedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newApplicationSubmittedHandler(writer Writer, logg *logger.Logger) Handler {
	return &applicationSubmittedHandler{writer: writer, logg: logg}
}

func (h *applicationSubmittedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.ApplicationSubmittedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for application_submitted: %w", types.ErrPoisonEvent)
	}

	fields := map[string]any{
		"event_type":     envelope.EventType,
		"application_id": event.ApplicationID,
		"campaign_id":    event.CampaignID,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	row, err := buildFunnelRow(envelope, time.Time{}, funnelIDs{
		ApplicationID: event.ApplicationID,
		CampaignID:    event.CampaignID,
		BrandID:       event.BrandID,
		InfluencerID:  event.InfluencerID,
	}, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build funnel row", err)
		return err
	}

	if err := h.writer.InsertFunnel(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert funnel row", err)
		return err
	}

	h.logg.Info(logCtx, "application_submitted handler inserted funnel row")
	return nil
}

type applicationApprovedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newApplicationApprovedHandler(writer Writer, logg *logger.Logger) Handler {
	return &applicationApprovedHandler{writer: writer, logg: logg}
}

func (h *applicationApprovedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.ApplicationApprovedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for application_approved: %w", types.ErrPoisonEvent)
	}

	fields := map[string]any{
		"event_type":     envelope.EventType,
		"application_id": event.ApplicationID,
		"contract_id":    event.ContractID,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	row, err := buildFunnelRow(envelope, time.Time{}, funnelIDs{
		ContractID:    event.ContractID,
		ApplicationID: event.ApplicationID,
		CampaignID:    event.CampaignID,
		BrandID:       event.BrandID,
		InfluencerID:  event.InfluencerID,
	}, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build funnel row", err)
		return err
	}

	if err := h.writer.InsertFunnel(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert funnel row", err)
		return err
	}

	h.logg.Info(logCtx, "application_approved handler inserted funnel row")
	return nil
}

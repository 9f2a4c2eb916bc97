package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/brandquill/brandquill-backend/pkg/logger"
	"github.com/brandquill/brandquill-backend/pkg/outbox"
	"github.com/brandquill/brandquill-backend/pkg/outbox/idempotency"
	"github.com/brandquill/brandquill-backend/pkg/outbox/payloads"
	"github.com/brandquill/brandquill-backend/pkg/types"
)

const contractNotificationConsumer = "contract-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches contract and application events and materializes in-app
// notifications for the party that did not act.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds a contract notification consumer.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("contract events subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	rawType := msg.Attributes["event_type"]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": rawType,
	})

	eventType, err := enums.ParseOutboxEventType(rawType)
	if err != nil {
		c.logg.Info(logCtx, "skipping unknown event type")
		return processResult{ack: true}
	}
	if !notifiableEvent(eventType) {
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, contractNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	rows, err := notificationsFor(eventType, envelope)
	if err != nil {
		c.logg.Error(logCtx, "failed to parse payload", err)
		_ = c.idempotency.Delete(ctx, contractNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	for _, notification := range rows {
		if err := c.repo.Create(ctx, notification); err != nil {
			c.logg.Error(logCtx, "failed to store notification", err)
			_ = c.idempotency.Delete(ctx, contractNotificationConsumer, eventID)
			return processResult{nack: true}
		}
	}

	c.logg.Info(logCtx, "notifications materialized")
	return processResult{ack: true}
}

// notifiableEvent reports whether the event type maps to an inbox entry.
// Render requests and field edits stay machine-only.
func notifiableEvent(eventType enums.OutboxEventType) bool {
	switch eventType {
	case enums.EventContractSent,
		enums.EventContractConfirmed,
		enums.EventContractSigned,
		enums.EventContractLocked,
		enums.EventContractRejected,
		enums.EventContractResent,
		enums.EventContractReminderDue,
		enums.EventApplicationSubmitted,
		enums.EventApplicationApproved,
		enums.EventApplicationDeclined:
		return true
	default:
		return false
	}
}

// notificationsFor maps one decoded event onto the notifications it produces.
// Party-scoped events notify the side that did not act.
func notificationsFor(eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) ([]*models.Notification, error) {
	switch eventType {
	case enums.EventContractSent:
		var payload payloads.ContractSentEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return []*models.Notification{newNotification(
			enums.ContractPartyInfluencer, payload.InfluencerID,
			enums.NotificationTypeContractSent,
			"New contract received",
			"A brand sent you a collaboration contract to review.",
			contractMetadata(payload.ContractID, payload.CampaignID),
		)}, nil

	case enums.EventContractConfirmed:
		var payload payloads.ContractConfirmedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		kind, recipient := counterparty(payload.Party, payload.BrandID, payload.InfluencerID)
		return []*models.Notification{newNotification(
			kind, recipient,
			enums.NotificationTypeContractConfirmed,
			"Contract confirmed",
			fmt.Sprintf("The %s confirmed the contract terms.", payload.Party),
			contractMetadata(payload.ContractID, payload.CampaignID),
		)}, nil

	case enums.EventContractSigned:
		var payload payloads.ContractSignedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		kind, recipient := counterparty(payload.Party, payload.BrandID, payload.InfluencerID)
		return []*models.Notification{newNotification(
			kind, recipient,
			enums.NotificationTypeContractSigned,
			"Contract signed",
			fmt.Sprintf("The %s signed the contract.", payload.Party),
			contractMetadata(payload.ContractID, payload.CampaignID),
		)}, nil

	case enums.EventContractLocked:
		var payload payloads.ContractLockedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return lockedNotifications(envelope.Actor, payload), nil

	case enums.EventContractRejected:
		var payload payloads.ContractRejectedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		kind, recipient := counterparty(payload.Party, payload.BrandID, payload.InfluencerID)
		message := fmt.Sprintf("The %s rejected the contract.", payload.Party)
		if payload.Reason != "" {
			message = fmt.Sprintf("The %s rejected the contract: %s", payload.Party, payload.Reason)
		}
		return []*models.Notification{newNotification(
			kind, recipient,
			enums.NotificationTypeContractRejected,
			"Contract rejected",
			message,
			contractMetadata(payload.ContractID, payload.CampaignID),
		)}, nil

	case enums.EventContractResent:
		var payload payloads.ContractResentEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		metadata := contractMetadata(payload.ContractID, payload.CampaignID)
		metadata["original_contract_id"] = payload.OriginalContractID.String()
		return []*models.Notification{newNotification(
			enums.ContractPartyInfluencer, payload.InfluencerID,
			enums.NotificationTypeContractResent,
			"Revised contract received",
			"The brand sent a revised contract; the previous version is no longer active.",
			metadata,
		)}, nil

	case enums.EventContractReminderDue:
		var payload payloads.ContractReminderDueEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return []*models.Notification{newNotification(
			enums.ContractPartyInfluencer, payload.InfluencerID,
			enums.NotificationTypeContractReminder,
			"Contract awaiting review",
			fmt.Sprintf("A contract has been waiting for your review for %d hours.", payload.PendingHours),
			contractMetadata(payload.ContractID, payload.CampaignID),
		)}, nil

	case enums.EventApplicationSubmitted:
		var payload payloads.ApplicationSubmittedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return []*models.Notification{newNotification(
			enums.ContractPartyBrand, payload.BrandID,
			enums.NotificationTypeApplicationReceived,
			"New application",
			"An influencer applied to your campaign.",
			applicationMetadata(payload.ApplicationID, payload.CampaignID),
		)}, nil

	case enums.EventApplicationApproved:
		var payload payloads.ApplicationApprovedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		metadata := applicationMetadata(payload.ApplicationID, payload.CampaignID)
		metadata["contract_id"] = payload.ContractID.String()
		return []*models.Notification{newNotification(
			enums.ContractPartyInfluencer, payload.InfluencerID,
			enums.NotificationTypeApplicationApproved,
			"Application approved",
			"Your application was approved and a contract is ready for review.",
			metadata,
		)}, nil

	case enums.EventApplicationDeclined:
		var payload payloads.ApplicationDeclinedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		message := "Your application was declined."
		if payload.Reason != "" {
			message = fmt.Sprintf("Your application was declined: %s", payload.Reason)
		}
		return []*models.Notification{newNotification(
			enums.ContractPartyInfluencer, payload.InfluencerID,
			enums.NotificationTypeApplicationDeclined,
			"Application declined",
			message,
			applicationMetadata(payload.ApplicationID, payload.CampaignID),
		)}, nil
	}
	return nil, fmt.Errorf("no notification mapping for %s", eventType)
}

// lockedNotifications notifies the side that did not place the final
// signature. Without a usable actor both parties hear about the milestone.
func lockedNotifications(actor *outbox.ActorRef, payload payloads.ContractLockedEvent) []*models.Notification {
	metadata := contractMetadata(payload.ContractID, payload.CampaignID)
	title := "Contract fully executed"
	message := "Both parties confirmed and signed; the contract is now locked."

	brand := newNotification(enums.ContractPartyBrand, payload.BrandID, enums.NotificationTypeContractLocked, title, message, metadata)
	influencer := newNotification(enums.ContractPartyInfluencer, payload.InfluencerID, enums.NotificationTypeContractLocked, title, message, metadata)

	if actor != nil {
		switch actor.Party {
		case enums.ContractPartyInfluencer.String():
			return []*models.Notification{brand}
		case enums.ContractPartyBrand.String():
			return []*models.Notification{influencer}
		}
	}
	return []*models.Notification{brand, influencer}
}

func counterparty(acting enums.ContractParty, brandID, influencerID uuid.UUID) (enums.ContractParty, uuid.UUID) {
	if acting == enums.ContractPartyInfluencer {
		return enums.ContractPartyBrand, brandID
	}
	return enums.ContractPartyInfluencer, influencerID
}

func newNotification(kind enums.ContractParty, recipientID uuid.UUID, nType enums.NotificationType, title, message string, metadata types.JSONMap) *models.Notification {
	return &models.Notification{
		RecipientKind: kind,
		RecipientID:   recipientID,
		Type:          nType,
		Title:         title,
		Message:       message,
		Metadata:      &metadata,
	}
}

func contractMetadata(contractID, campaignID uuid.UUID) types.JSONMap {
	return types.JSONMap{
		"contract_id": contractID.String(),
		"campaign_id": campaignID.String(),
	}
}

func applicationMetadata(applicationID, campaignID uuid.UUID) types.JSONMap {
	return types.JSONMap{
		"application_id": applicationID.String(),
		"campaign_id":    campaignID.String(),
	}
}

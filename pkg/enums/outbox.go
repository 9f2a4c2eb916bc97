package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateContract     OutboxAggregateType = "contract"
	AggregateApplication  OutboxAggregateType = "campaign_application"
	AggregateCampaign     OutboxAggregateType = "campaign"
	AggregateNotification OutboxAggregateType = "notification"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateContract,
	AggregateApplication,
	AggregateCampaign,
	AggregateNotification,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventContractSent            OutboxEventType = "contract_sent"
	EventContractConfirmed       OutboxEventType = "contract_confirmed"
	EventContractFieldsUpdated   OutboxEventType = "contract_fields_updated"
	EventContractSigned          OutboxEventType = "contract_signed"
	EventContractLocked          OutboxEventType = "contract_locked"
	EventContractRejected        OutboxEventType = "contract_rejected"
	EventContractResent          OutboxEventType = "contract_resent"
	EventContractRenderRequested OutboxEventType = "contract_render_requested"
	EventContractReminderDue     OutboxEventType = "contract_reminder_due"
	EventApplicationSubmitted    OutboxEventType = "application_submitted"
	EventApplicationApproved     OutboxEventType = "application_approved"
	EventApplicationDeclined     OutboxEventType = "application_declined"
)

var validOutboxEventTypes = []OutboxEventType{
	EventContractSent,
	EventContractConfirmed,
	EventContractFieldsUpdated,
	EventContractSigned,
	EventContractLocked,
	EventContractRejected,
	EventContractResent,
	EventContractRenderRequested,
	EventContractReminderDue,
	EventApplicationSubmitted,
	EventApplicationApproved,
	EventApplicationDeclined,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}

package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/brandquill/brandquill-backend/pkg/config"
	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/brandquill/brandquill-backend/pkg/outbox"
	"github.com/brandquill/brandquill-backend/pkg/outbox/payloads"
	"github.com/google/uuid"
)

// EventDescriptor links an event type to its aggregate/topic/payload schema.
type EventDescriptor struct {
	EventType      enums.OutboxEventType
	AggregateType  enums.OutboxAggregateType
	Topic          string
	PayloadFactory func() interface{}
}

// ResolvedEvent is the result of decoding an outbox row.
type ResolvedEvent struct {
	Descriptor EventDescriptor
	Envelope   outbox.PayloadEnvelope
	Payload    interface{}
}

// EventRegistry maps each supported event type to its descriptor.
type EventRegistry struct {
	entries map[enums.OutboxEventType]EventDescriptor
}

// NonRetryableError signals the dispatcher should stop retrying a row.
type NonRetryableError struct {
	Err error
}

// Error implements error.
func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

// Unwrap exposes the wrapped error.
func (e NonRetryableError) Unwrap() error {
	return e.Err
}

// NewEventRegistry builds the registry with the configured topic names.
func NewEventRegistry(cfg config.PubSubConfig) (*EventRegistry, error) {
	if cfg.ContractTopic == "" {
		return nil, fmt.Errorf("contract topic is required")
	}
	if cfg.RenderTopic == "" {
		return nil, fmt.Errorf("render topic is required")
	}

	reg := &EventRegistry{entries: make(map[enums.OutboxEventType]EventDescriptor)}
	contractTopic := cfg.ContractTopic
	renderTopic := cfg.RenderTopic

	for _, desc := range []EventDescriptor{
		{
			EventType:      enums.EventContractSent,
			AggregateType:  enums.AggregateContract,
			Topic:          contractTopic,
			PayloadFactory: func() interface{} { return &payloads.ContractSentEvent{} },
		},
		{
			EventType:      enums.EventContractConfirmed,
			AggregateType:  enums.AggregateContract,
			Topic:          contractTopic,
			PayloadFactory: func() interface{} { return &payloads.ContractConfirmedEvent{} },
		},
		{
			EventType:      enums.EventContractFieldsUpdated,
			AggregateType:  enums.AggregateContract,
			Topic:          contractTopic,
			PayloadFactory: func() interface{} { return &payloads.ContractFieldsUpdatedEvent{} },
		},
		{
			EventType:      enums.EventContractSigned,
			AggregateType:  enums.AggregateContract,
			Topic:          contractTopic,
			PayloadFactory: func() interface{} { return &payloads.ContractSignedEvent{} },
		},
		{
			EventType:      enums.EventContractLocked,
			AggregateType:  enums.AggregateContract,
			Topic:          contractTopic,
			PayloadFactory: func() interface{} { return &payloads.ContractLockedEvent{} },
		},
		{
			EventType:      enums.EventContractRejected,
			AggregateType:  enums.AggregateContract,
			Topic:          contractTopic,
			PayloadFactory: func() interface{} { return &payloads.ContractRejectedEvent{} },
		},
		{
			EventType:      enums.EventContractResent,
			AggregateType:  enums.AggregateContract,
			Topic:          contractTopic,
			PayloadFactory: func() interface{} { return &payloads.ContractResentEvent{} },
		},
		{
			EventType:      enums.EventContractReminderDue,
			AggregateType:  enums.AggregateContract,
			Topic:          contractTopic,
			PayloadFactory: func() interface{} { return &payloads.ContractReminderDueEvent{} },
		},
	} {
		reg.register(desc)
	}

	// Render requests go to their own topic so the PDF collaborator does not
	// sift through the full domain stream.
	reg.register(EventDescriptor{
		EventType:      enums.EventContractRenderRequested,
		AggregateType:  enums.AggregateContract,
		Topic:          renderTopic,
		PayloadFactory: func() interface{} { return &payloads.ContractRenderRequestedEvent{} },
	})

	for _, desc := range []EventDescriptor{
		{
			EventType:      enums.EventApplicationSubmitted,
			AggregateType:  enums.AggregateApplication,
			Topic:          contractTopic,
			PayloadFactory: func() interface{} { return &payloads.ApplicationSubmittedEvent{} },
		},
		{
			EventType:      enums.EventApplicationApproved,
			AggregateType:  enums.AggregateApplication,
			Topic:          contractTopic,
			PayloadFactory: func() interface{} { return &payloads.ApplicationApprovedEvent{} },
		},
		{
			EventType:      enums.EventApplicationDeclined,
			AggregateType:  enums.AggregateApplication,
			Topic:          contractTopic,
			PayloadFactory: func() interface{} { return &payloads.ApplicationDeclinedEvent{} },
		},
	} {
		reg.register(desc)
	}

	return reg, nil
}

func (r *EventRegistry) register(desc EventDescriptor) {
	if desc.PayloadFactory == nil {
		return
	}
	r.entries[desc.EventType] = desc
}

// Resolve validates the row and decodes its typed payload.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	desc, ok := r.entries[event.EventType]
	if !ok {
		return nil, NewNonRetryableError(fmt.Errorf("unsupported event type %s", event.EventType))
	}
	if desc.AggregateType != event.AggregateType {
		return nil, NewNonRetryableError(fmt.Errorf("aggregate mismatch: expected %s got %s", desc.AggregateType, event.AggregateType))
	}
	if event.AggregateID == uuid.Nil {
		return nil, NewNonRetryableError(fmt.Errorf("missing aggregate_id"))
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode envelope: %w", err))
	}

	trimmed := bytes.TrimSpace(envelope.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, NewNonRetryableError(fmt.Errorf("payload missing for %s", event.EventType))
	}

	payload := desc.PayloadFactory()
	if payload == nil {
		return nil, NewNonRetryableError(fmt.Errorf("payload factory not configured for %s", event.EventType))
	}
	if err := json.Unmarshal(envelope.Data, payload); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode %s payload: %w", event.EventType, err))
	}

	return &ResolvedEvent{
		Descriptor: desc,
		Envelope:   envelope,
		Payload:    payload,
	}, nil
}

// NewNonRetryableError wraps an error to signal no retries.
func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}

package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brandquill/brandquill-backend/internal/analytics/types"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	"github.com/brandquill/brandquill-backend/pkg/logger"
	"github.com/brandquill/brandquill-backend/pkg/outbox/payloads"
)

// ErrUnsupportedEventType wraps the poison sentinel: an event type outside the
// handler map will never become routable through redelivery.
var ErrUnsupportedEventType = fmt.Errorf("unsupported analytics event type: %w", types.ErrPoisonEvent)

// Writer delivers BigQuery rows produced by funnel handlers.
type Writer interface {
	InsertFunnel(ctx context.Context, row types.ContractFunnelRow) error
}

// Handler receives an envelope plus a decoded event payload.
type Handler interface {
	Handle(ctx context.Context, envelope types.Envelope, payload any) error
}

type handlerEntry struct {
	factory func() any
	handler Handler
}

// Router dispatches analytics envelopes to the configured handler per event type.
type Router struct {
	handlers map[enums.AnalyticsEventType]handlerEntry
	logg     *logger.Logger
}

// NewRouter wires the default handlers and allows overrides for specific events.
func NewRouter(writer Writer, logg *logger.Logger, overrides map[enums.AnalyticsEventType]Handler) (*Router, error) {
	if writer == nil {
		return nil, errors.New("writer is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}

	entries := map[enums.AnalyticsEventType]handlerEntry{
		enums.AnalyticsEventContractSent: {
			factory: func() any { return &payloads.ContractSentEvent{} },
			handler: newContractSentHandler(writer, logg),
		},
		enums.AnalyticsEventContractConfirmed: {
			factory: func() any { return &payloads.ContractConfirmedEvent{} },
			handler: newContractConfirmedHandler(writer, logg),
		},
		enums.AnalyticsEventContractSigned: {
			factory: func() any { return &payloads.ContractSignedEvent{} },
			handler: newContractSignedHandler(writer, logg),
		},
		enums.AnalyticsEventContractLocked: {
			factory: func() any { return &payloads.ContractLockedEvent{} },
			handler: newContractLockedHandler(writer, logg),
		},
		enums.AnalyticsEventContractRejected: {
			factory: func() any { return &payloads.ContractRejectedEvent{} },
			handler: newContractRejectedHandler(writer, logg),
		},
		enums.AnalyticsEventContractResent: {
			factory: func() any { return &payloads.ContractResentEvent{} },
			handler: newContractResentHandler(writer, logg),
		},
		enums.AnalyticsEventApplicationSubmitted: {
			factory: func() any { return &payloads.ApplicationSubmittedEvent{} },
			handler: newApplicationSubmittedHandler(writer, logg),
		},
		enums.AnalyticsEventApplicationApproved: {
			factory: func() any { return &payloads.ApplicationApprovedEvent{} },
			handler: newApplicationApprovedHandler(writer, logg),
		},
	}

	for event, custom := range overrides {
		entry, ok := entries[event]
		if !ok || custom == nil {
			continue
		}
		entry.handler = custom
		entries[event] = entry
	}

	return &Router{
		handlers: entries,
		logg:     logg,
	}, nil
}

// Handle dispatches the incoming envelope to the configured handler. Decode
// failures are wrapped as poison: the bytes will not improve on redelivery.
func (r *Router) Handle(ctx context.Context, envelope types.Envelope) error {
	entry, ok := r.handlers[envelope.EventType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedEventType, envelope.EventType)
	}
	payload := entry.factory()
	if len(envelope.Payload) == 0 {
		return fmt.Errorf("empty payload for %s: %w", envelope.EventType, types.ErrPoisonEvent)
	}
	if err := json.Unmarshal(envelope.Payload, payload); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", envelope.EventType, err, types.ErrPoisonEvent)
	}

	return entry.handler.Handle(ctx, envelope, payload)
}

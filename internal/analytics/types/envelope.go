package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/brandquill/brandquill-backend/pkg/enums"
)

// ErrPoisonEvent marks an envelope that can never be processed successfully,
// no matter how often it is redelivered. Consumers ack these after counting
// them instead of letting them cycle through the subscription forever.
var ErrPoisonEvent = errors.New("analytics event cannot be processed")

// Envelope is the canonical analytics event as delivered over Pub/Sub.
// Handlers receive it after the worker has validated the identity
// fields; Payload stays raw until a handler decodes its typed shape.
type Envelope struct {
	EventID       string                    `json:"event_id"`
	EventType     enums.AnalyticsEventType  `json:"event_type"`
	AggregateType enums.OutboxAggregateType `json:"aggregate_type"`
	AggregateID   string                    `json:"aggregate_id"`
	OccurredAt    time.Time                 `json:"occurred_at"`
	Payload       json.RawMessage           `json:"payload"`
}

// PayloadMap decodes the raw payload for keyed access. An empty or
// JSON-null payload yields an empty map rather than nil.
func (e Envelope) PayloadMap() (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(e.Payload)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(e.Payload, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return map[string]any{}, nil
	}
	return out, nil
}

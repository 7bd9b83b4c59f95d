package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shopify-pixel-relay/internal/domain"
	"shopify-pixel-relay/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventRelay accepts pixel event envelopes, logs them and hands them to handlers and subscribers
type EventRelay struct {
	handlers  []ports.EventHandler
	publisher ports.EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEventRelay creates a new event relay. publisher may be nil.
func NewEventRelay(handlers []ports.EventHandler, publisher ports.EventPublisher, logger zerolog.Logger) *EventRelay {
	return &EventRelay{
		handlers:  handlers,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// DecodeEnvelope reads a JSON body into an envelope without checking field types.
// Objects are decoded field by field and arrays carry no fields. Non-JSON input and
// bare scalars yield ErrMalformedJSON; a JSON null yields ErrInvalidEnvelope.
func DecodeEnvelope(body []byte) (*domain.EventEnvelope, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return nil, domain.ErrMalformedJSON
	}

	var envelope domain.EventEnvelope
	switch trimmed[0] {
	case '{':
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEnvelope, err)
		}
	case '[':
	case 'n':
		return nil, fmt.Errorf("%w: body is null", domain.ErrInvalidEnvelope)
	default:
		return nil, fmt.Errorf("%w: body is not an object or array", domain.ErrMalformedJSON)
	}
	return &envelope, nil
}

// Relay logs the envelope and dispatches it. Handler failures are logged and never returned.
func (r *EventRelay) Relay(ctx context.Context, envelope *domain.EventEnvelope) *domain.RelayedEvent {
	event := &domain.RelayedEvent{
		ID:         uuid.NewString(),
		ReceivedAt: r.now().UTC(),
		Envelope:   *envelope,
	}

	logEvent := r.logger.Info().Str("receivedId", event.ID)
	for _, field := range []struct {
		key   string
		value json.RawMessage
	}{
		{"timestamp", envelope.Timestamp},
		{"shop", envelope.Shop},
		{"eventName", envelope.EventName},
		{"eventData", envelope.EventData},
		{"customerId", envelope.CustomerID},
		{"clientId", envelope.ClientID},
		{"url", envelope.URL},
		{"userAgent", envelope.UserAgent},
	} {
		logEvent = logEvent.RawJSON(field.key, rawOrNull(field.value))
	}
	logEvent.Msg("Shopify event received")

	name := envelope.Name()
	for _, handler := range r.handlers {
		if !handler.CanHandle(name) {
			continue
		}
		if err := handler.Handle(ctx, event); err != nil {
			r.logger.Warn().
				Err(err).
				Str("receivedId", event.ID).
				Str("eventName", name).
				Msg("Event handler failed")
		}
	}

	if r.publisher != nil {
		r.publisher.Publish(event)
	}

	return event
}

// rawOrNull compacts raw onto one line; absent fields are logged as null
func rawOrNull(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return []byte("null")
	}
	return buf.Bytes()
}

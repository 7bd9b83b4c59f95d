package domain

import (
	"encoding/json"
	"time"
)

// EventEnvelope is the payload the pixel script posts for every storefront event.
// Fields are kept as the raw JSON the caller sent; no field is required and none is type checked.
// An absent field is nil, an explicit null is the literal `null`.
type EventEnvelope struct {
	Timestamp  json.RawMessage `json:"timestamp,omitempty"`
	Shop       json.RawMessage `json:"shop,omitempty"`
	EventName  json.RawMessage `json:"eventName,omitempty"`
	EventData  json.RawMessage `json:"eventData,omitempty"`
	CustomerID json.RawMessage `json:"customerId,omitempty"`
	ClientID   json.RawMessage `json:"clientId,omitempty"`
	URL        json.RawMessage `json:"url,omitempty"`
	UserAgent  json.RawMessage `json:"userAgent,omitempty"`
}

// Name returns eventName when it was sent as a JSON string, "" otherwise
func (e EventEnvelope) Name() string {
	return rawString(e.EventName)
}

// ShopDomain returns shop when it was sent as a JSON string, "" otherwise
func (e EventEnvelope) ShopDomain() string {
	return rawString(e.Shop)
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || raw[0] != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// RelayedEvent is an envelope after it has been accepted by the relay
type RelayedEvent struct {
	ID         string        `json:"receivedId"`
	ReceivedAt time.Time     `json:"receivedAt"`
	Envelope   EventEnvelope `json:"envelope"`
}

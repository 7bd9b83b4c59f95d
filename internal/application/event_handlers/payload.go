package event_handlers

import (
	"encoding/json"
	"fmt"
)

// pixelEvent is the subset of a Shopify web pixel event the handlers read.
// The script forwards the whole event object as eventData.
type pixelEvent struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	Context   struct {
		Document struct {
			Title    string `json:"title"`
			Referrer string `json:"referrer"`
			Location struct {
				Href     string `json:"href"`
				Pathname string `json:"pathname"`
			} `json:"location"`
		} `json:"document"`
	} `json:"context"`
}

type moneyV2 struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
}

type productVariant struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	SKU     string  `json:"sku"`
	Price   moneyV2 `json:"price"`
	Product struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Vendor string `json:"vendor"`
		Type   string `json:"type"`
	} `json:"product"`
}

func parsePixelEvent(raw json.RawMessage) (*pixelEvent, error) {
	var event pixelEvent
	if len(raw) == 0 || string(raw) == "null" {
		return &event, nil
	}
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("failed to parse pixel event: %w", err)
	}
	return &event, nil
}

func parseData(event *pixelEvent, v interface{}) error {
	if len(event.Data) == 0 || string(event.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(event.Data, v); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", event.Name, err)
	}
	return nil
}

package event_handlers

import (
	"context"

	"shopify-pixel-relay/internal/domain"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout_completed events
type CheckoutHandler struct {
	logger zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given event
func (h *CheckoutHandler) CanHandle(eventName string) bool {
	return eventName == "checkout_completed"
}

// Handle logs the completed checkout totals
func (h *CheckoutHandler) Handle(ctx context.Context, event *domain.RelayedEvent) error {
	pixel, err := parsePixelEvent(event.Envelope.EventData)
	if err != nil {
		return err
	}

	var data struct {
		Checkout struct {
			Token      string  `json:"token"`
			Email      string  `json:"email"`
			TotalPrice moneyV2 `json:"totalPrice"`
			LineItems  []struct {
				Title    string `json:"title"`
				Quantity int    `json:"quantity"`
			} `json:"lineItems"`
			Order struct {
				ID string `json:"id"`
			} `json:"order"`
		} `json:"checkout"`
	}
	if err := parseData(pixel, &data); err != nil {
		return err
	}

	checkout := data.Checkout
	items := 0
	for _, item := range checkout.LineItems {
		items += item.Quantity
	}

	h.logger.Info().
		Str("receivedId", event.ID).
		Str("shop", event.Envelope.ShopDomain()).
		Str("checkoutToken", checkout.Token).
		Str("orderId", checkout.Order.ID).
		Float64("totalPrice", checkout.TotalPrice.Amount).
		Str("currency", checkout.TotalPrice.CurrencyCode).
		Int("items", items).
		Msg("Checkout completed")

	return nil
}

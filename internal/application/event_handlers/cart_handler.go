package event_handlers

import (
	"context"

	"shopify-pixel-relay/internal/domain"

	"github.com/rs/zerolog"
)

// CartHandler handles product_added_to_cart events
type CartHandler struct {
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given event
func (h *CartHandler) CanHandle(eventName string) bool {
	return eventName == "product_added_to_cart"
}

// Handle logs the added cart line
func (h *CartHandler) Handle(ctx context.Context, event *domain.RelayedEvent) error {
	pixel, err := parsePixelEvent(event.Envelope.EventData)
	if err != nil {
		return err
	}

	var data struct {
		CartLine *struct {
			Quantity int `json:"quantity"`
			Cost     struct {
				TotalAmount moneyV2 `json:"totalAmount"`
			} `json:"cost"`
			Merchandise productVariant `json:"merchandise"`
		} `json:"cartLine"`
	}
	if err := parseData(pixel, &data); err != nil {
		return err
	}

	if data.CartLine == nil {
		h.logger.Warn().
			Str("receivedId", event.ID).
			Str("shop", event.Envelope.ShopDomain()).
			Msg("Cart event without cart line")
		return nil
	}

	line := data.CartLine
	h.logger.Info().
		Str("receivedId", event.ID).
		Str("shop", event.Envelope.ShopDomain()).
		Str("productTitle", line.Merchandise.Product.Title).
		Str("variantId", line.Merchandise.ID).
		Int("quantity", line.Quantity).
		Float64("totalAmount", line.Cost.TotalAmount.Amount).
		Str("currency", line.Cost.TotalAmount.CurrencyCode).
		Msg("Product added to cart")

	return nil
}

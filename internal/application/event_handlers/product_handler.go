package event_handlers

import (
	"context"

	"shopify-pixel-relay/internal/domain"

	"github.com/rs/zerolog"
)

// ProductHandler handles product_viewed events
type ProductHandler struct {
	logger zerolog.Logger
}

// NewProductHandler creates a new product view handler
func NewProductHandler(logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given event
func (h *ProductHandler) CanHandle(eventName string) bool {
	return eventName == "product_viewed"
}

// Handle logs the viewed product variant
func (h *ProductHandler) Handle(ctx context.Context, event *domain.RelayedEvent) error {
	pixel, err := parsePixelEvent(event.Envelope.EventData)
	if err != nil {
		return err
	}

	var data struct {
		ProductVariant productVariant `json:"productVariant"`
	}
	if err := parseData(pixel, &data); err != nil {
		return err
	}

	variant := data.ProductVariant
	h.logger.Info().
		Str("receivedId", event.ID).
		Str("shop", event.Envelope.ShopDomain()).
		Str("productId", variant.Product.ID).
		Str("productTitle", variant.Product.Title).
		Str("vendor", variant.Product.Vendor).
		Str("variantId", variant.ID).
		Str("sku", variant.SKU).
		Float64("price", variant.Price.Amount).
		Str("currency", variant.Price.CurrencyCode).
		Msg("Product viewed")

	return nil
}

package event_handlers

import (
	"shopify-pixel-relay/internal/ports"

	"github.com/rs/zerolog"
)

// Default returns the handlers for the standard storefront events
func Default(logger zerolog.Logger) []ports.EventHandler {
	return []ports.EventHandler{
		NewPageViewedHandler(logger),
		NewProductHandler(logger),
		NewCartHandler(logger),
		NewCheckoutHandler(logger),
	}
}

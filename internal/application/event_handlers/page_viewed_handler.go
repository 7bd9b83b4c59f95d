package event_handlers

import (
	"context"

	"shopify-pixel-relay/internal/domain"

	"github.com/rs/zerolog"
)

// PageViewedHandler handles page_viewed events
type PageViewedHandler struct {
	logger zerolog.Logger
}

// NewPageViewedHandler creates a new page view handler
func NewPageViewedHandler(logger zerolog.Logger) *PageViewedHandler {
	return &PageViewedHandler{
		logger: logger,
	}
}

func (h *PageViewedHandler) CanHandle(eventName string) bool {
	return eventName == "page_viewed"
}

func (h *PageViewedHandler) Handle(ctx context.Context, event *domain.RelayedEvent) error {
	pixel, err := parsePixelEvent(event.Envelope.EventData)
	if err != nil {
		return err
	}

	h.logger.Info().
		Str("receivedId", event.ID).
		Str("shop", event.Envelope.ShopDomain()).
		Str("title", pixel.Context.Document.Title).
		Str("path", pixel.Context.Document.Location.Pathname).
		Str("referrer", pixel.Context.Document.Referrer).
		Msg("Page viewed")

	return nil
}

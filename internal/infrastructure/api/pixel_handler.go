package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shopify-pixel-relay/internal/application"
	"shopify-pixel-relay/internal/domain"
	"shopify-pixel-relay/internal/infrastructure/metrics"
	"shopify-pixel-relay/internal/infrastructure/pubsub"

	"github.com/rs/zerolog"
)

const (
	maxEventBody       = 1 << 20
	streamKeepAlive    = 15 * time.Second
	relayAckMessage    = "Event received and logged"
	relayErrorMessage  = "Error processing event"
	invalidJSONMessage = "Invalid JSON body"
)

// PixelHandler serves the pixel script and receives the events it posts
type PixelHandler struct {
	scripts    *application.ScriptGenerator
	relay      *application.EventRelay
	pubsub     *pubsub.EventPubSub
	metrics    *metrics.Metrics
	publicHost string
	logger     zerolog.Logger
}

// NewPixelHandler creates a new pixel handler
func NewPixelHandler(
	scripts *application.ScriptGenerator,
	relay *application.EventRelay,
	ps *pubsub.EventPubSub,
	m *metrics.Metrics,
	publicHost string,
	logger zerolog.Logger,
) *PixelHandler {
	return &PixelHandler{
		scripts:    scripts,
		relay:      relay,
		pubsub:     ps,
		metrics:    m,
		publicHost: publicHost,
		logger:     logger,
	}
}

// Script handles GET /pixel-script
func (h *PixelHandler) Script(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")
	webhookURL := scriptBaseURL(r, h.publicHost) + webhookPath

	script, err := h.scripts.Generate(shop, webhookURL)
	if errors.Is(err, domain.ErrInvalidShop) {
		h.logger.Warn().Str("shop", shop).Msg("Rejected pixel script request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("Failed to generate pixel script")
		http.Error(w, "failed to generate pixel script", http.StatusInternalServerError)
		return
	}

	h.metrics.ScriptServed()
	h.logger.Debug().Str("shop", shop).Str("webhookUrl", webhookURL).Msg("Serving pixel script")

	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, script)
}

// Receive handles POST /webhook/shopify-events
func (h *PixelHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBody))
	if err != nil {
		h.metrics.EventReceived(metrics.OutcomeInvalid)
		h.logger.Warn().Err(err).Msg("Failed to read event body")
		writeJSON(w, http.StatusBadRequest, RelayResponse{Success: false, Message: invalidJSONMessage}, h.logger)
		return
	}

	envelope, err := application.DecodeEnvelope(body)
	switch {
	case errors.Is(err, domain.ErrMalformedJSON):
		h.metrics.EventReceived(metrics.OutcomeInvalid)
		h.logger.Warn().Int("bytes", len(body)).Msg("Rejected non-JSON event body")
		writeJSON(w, http.StatusBadRequest, RelayResponse{Success: false, Message: invalidJSONMessage}, h.logger)
		return
	case err != nil:
		h.metrics.EventReceived(metrics.OutcomeFailed)
		h.logger.Error().Err(err).Msg("Error processing webhook")
		writeJSON(w, http.StatusInternalServerError, RelayResponse{Success: false, Message: relayErrorMessage}, h.logger)
		return
	}

	h.relay.Relay(r.Context(), envelope)
	h.metrics.EventReceived(metrics.OutcomeAccepted)

	writeJSON(w, http.StatusOK, RelayResponse{
		Success:   true,
		Message:   relayAckMessage,
		EventName: envelope.EventName,
	}, h.logger)
}

// Stream handles GET /webhook/shopify-events/stream as server-sent events
func (h *PixelHandler) Stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// streams outlive the server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	filter := &pubsub.EventFilter{Shop: r.URL.Query().Get("shop")}
	if names := r.URL.Query().Get("event"); names != "" {
		for _, name := range strings.Split(names, ",") {
			if name = strings.TrimSpace(name); name != "" {
				filter.EventNames = append(filter.EventNames, name)
			}
		}
	}

	sub := h.pubsub.Subscribe(r.Context(), filter)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, ": subscribed %s\n\n", sub.ID)
	if err := rc.Flush(); err != nil {
		h.logger.Error().Err(err).Msg("Streaming unsupported by response writer")
		h.pubsub.Unsubscribe(sub.ID)
		return
	}

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sub.Done:
			return
		case <-ticker.C:
			if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
				return
			}
			_ = rc.Flush()
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error().Err(err).Str("receivedId", event.ID).Msg("Failed to encode streamed event")
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s\ndata: %s\n\n", event.ID, data); err != nil {
				return
			}
			_ = rc.Flush()
		}
	}
}

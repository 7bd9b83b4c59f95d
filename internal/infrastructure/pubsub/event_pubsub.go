package pubsub

import (
	"context"
	"sync"

	"shopify-pixel-relay/internal/domain"
	"shopify-pixel-relay/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const subscriberBuffer = 10

// EventChannel represents a subscription channel
type EventChannel struct {
	ID     string
	Filter *EventFilter
	Events chan *domain.RelayedEvent
	Done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// EventFilter filters relayed pixel events. Empty fields match everything.
type EventFilter struct {
	EventNames []string `json:"eventNames,omitempty"`
	Shop       string   `json:"shop,omitempty"`
}

// EventPubSub fans relayed events out to live subscribers
type EventPubSub struct {
	mu       sync.RWMutex
	channels map[string]*EventChannel
	logger   zerolog.Logger

	statsMu   sync.Mutex
	published int64
	dropped   int64
}

// NewEventPubSub creates a new event pub/sub system
func NewEventPubSub(logger zerolog.Logger) *EventPubSub {
	return &EventPubSub{
		channels: make(map[string]*EventChannel),
		logger:   logger,
	}
}

// Subscribe creates a new subscription channel that is removed when ctx is cancelled
func (ps *EventPubSub) Subscribe(ctx context.Context, filter *EventFilter) *EventChannel {
	id := uuid.NewString()
	subCtx, cancel := context.WithCancel(ctx)

	channel := &EventChannel{
		ID:     id,
		Filter: filter,
		Events: make(chan *domain.RelayedEvent, subscriberBuffer),
		Done:   make(chan struct{}),
		ctx:    subCtx,
		cancel: cancel,
	}

	ps.mu.Lock()
	ps.channels[id] = channel
	ps.mu.Unlock()

	ps.logger.Info().
		Str("channelId", id).
		Interface("filter", filter).
		Msg("Event subscription created")

	go func() {
		<-subCtx.Done()
		ps.Unsubscribe(id)
	}()

	return channel
}

// Unsubscribe removes a subscription channel
func (ps *EventPubSub) Unsubscribe(channelID string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	channel, exists := ps.channels[channelID]
	if !exists {
		return
	}

	close(channel.Events)
	close(channel.Done)
	channel.cancel()
	delete(ps.channels, channelID)

	ps.logger.Info().
		Str("channelId", channelID).
		Msg("Event subscription removed")
}

// Publish broadcasts an event to all matching subscribers without blocking
func (ps *EventPubSub) Publish(event *domain.RelayedEvent) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var published, dropped int64
	for _, channel := range ps.channels {
		if !matchesFilter(event, channel.Filter) {
			continue
		}
		select {
		case channel.Events <- event:
			published++
		case <-channel.ctx.Done():
		default:
			dropped++
			ps.logger.Warn().
				Str("channelId", channel.ID).
				Str("receivedId", event.ID).
				Msg("Channel buffer full, dropping event")
		}
	}

	ps.statsMu.Lock()
	ps.published += published
	ps.dropped += dropped
	ps.statsMu.Unlock()

	if published > 0 {
		ps.logger.Debug().
			Str("eventName", event.Envelope.Name()).
			Str("shop", event.Envelope.ShopDomain()).
			Int64("subscribers", published).
			Msg("Published event to subscribers")
	}
}

func matchesFilter(event *domain.RelayedEvent, filter *EventFilter) bool {
	if filter == nil {
		return true
	}

	if len(filter.EventNames) > 0 {
		match := false
		for _, name := range filter.EventNames {
			if event.Envelope.Name() == name {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	if filter.Shop != "" && event.Envelope.ShopDomain() != filter.Shop {
		return false
	}

	return true
}

// Stats is a snapshot of subscriber and delivery counts
type Stats struct {
	Subscribers int
	Published   int64
	Dropped     int64
}

// GetStats returns pub/sub statistics
func (ps *EventPubSub) GetStats() Stats {
	ps.mu.RLock()
	active := len(ps.channels)
	ps.mu.RUnlock()

	ps.statsMu.Lock()
	defer ps.statsMu.Unlock()

	return Stats{
		Subscribers: active,
		Published:   ps.published,
		Dropped:     ps.dropped,
	}
}

var _ ports.EventPublisher = (*EventPubSub)(nil)

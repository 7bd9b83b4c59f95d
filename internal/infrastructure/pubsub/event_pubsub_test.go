package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"shopify-pixel-relay/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relayed(shop, name string) *domain.RelayedEvent {
	return &domain.RelayedEvent{
		ID:         "id-" + name,
		ReceivedAt: time.Now(),
		Envelope: domain.EventEnvelope{
			Shop:      jsonString(shop),
			EventName: jsonString(name),
		},
	}
}

func jsonString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

func TestEventPubSub_PublishMatchesFilter(t *testing.T) {
	ps := NewEventPubSub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	all := ps.Subscribe(ctx, nil)
	pageViews := ps.Subscribe(ctx, &EventFilter{EventNames: []string{"page_viewed"}})
	shopB := ps.Subscribe(ctx, &EventFilter{Shop: "b"})

	ps.Publish(relayed("a", "page_viewed"))
	ps.Publish(relayed("b", "checkout_completed"))

	assert.Len(t, all.Events, 2)
	require.Len(t, pageViews.Events, 1)
	assert.Equal(t, "page_viewed", (<-pageViews.Events).Envelope.Name())
	require.Len(t, shopB.Events, 1)
	assert.Equal(t, "checkout_completed", (<-shopB.Events).Envelope.Name())
}

func TestEventPubSub_DropsWhenBufferFull(t *testing.T) {
	ps := NewEventPubSub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := ps.Subscribe(ctx, nil)
	for i := 0; i < subscriberBuffer+5; i++ {
		ps.Publish(relayed("a", "page_viewed"))
	}

	assert.Len(t, sub.Events, subscriberBuffer)
	stats := ps.GetStats()
	assert.Equal(t, int64(subscriberBuffer), stats.Published)
	assert.Equal(t, int64(5), stats.Dropped)
}

func TestEventPubSub_UnsubscribeOnCancel(t *testing.T) {
	ps := NewEventPubSub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	sub := ps.Subscribe(ctx, nil)
	assert.Equal(t, 1, ps.GetStats().Subscribers)

	cancel()

	select {
	case <-sub.Done:
	case <-time.After(time.Second):
		t.Fatal("subscription was not removed after cancel")
	}
	assert.Equal(t, 0, ps.GetStats().Subscribers)

	// publishing after removal must not panic
	ps.Publish(relayed("a", "page_viewed"))
}

func TestEventPubSub_UnsubscribeUnknownIsNoop(t *testing.T) {
	ps := NewEventPubSub(zerolog.Nop())
	ps.Unsubscribe("missing")
	assert.Equal(t, 0, ps.GetStats().Subscribers)
}

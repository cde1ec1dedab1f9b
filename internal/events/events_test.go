package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestPublishSubscribeRoundtrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := zaptest.NewLogger(t)
	sub := NewRedisSubscriber(client, log)
	pub := NewRedisPublisher(client, log)

	received := make(chan Event, 1)
	require.NoError(t, sub.Subscribe(ctx, StreamCampaign, func(e Event) {
		received <- e
	}))

	// give the subscriber goroutine time to attach
	time.Sleep(50 * time.Millisecond)

	err := pub.Publish(ctx, StreamCampaign, Event{
		Type:    "campaign_approved",
		Payload: map[string]any{"campaign_id": "abc"},
	})
	require.NoError(t, err)

	select {
	case e := <-received:
		assert.Equal(t, "campaign_approved", e.Type)
		assert.Equal(t, "abc", e.Payload["campaign_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

package services

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// EventBridge subscribes to the room topic on Redis and forwards every event
// to the connected dashboards. The bridge is a live fast-path only: events
// published while no bridge (or no dashboard) is listening are gone, and
// consumers recover through the pending-requests pull endpoint.
type EventBridge struct {
	redis       *RedisService
	connManager *ConnectionManager
	room        string
	pubsub      *redis.PubSub
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewEventBridge creates a bridge for the given room
func NewEventBridge(redisService *RedisService, connManager *ConnectionManager, room string) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		redis:       redisService,
		connManager: connManager,
		room:        room,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins listening for room events
func (b *EventBridge) Start() error {
	b.pubsub = b.redis.Subscribe(b.ctx, Topic(b.room))

	// Wait for subscription confirmation
	if _, err := b.pubsub.Receive(b.ctx); err != nil {
		return err
	}

	go b.processMessages()

	log.Printf("📡 [BRIDGE] Listening for events on %s", Topic(b.room))
	return nil
}

// processMessages forwards room events to dashboard connections
func (b *EventBridge) processMessages() {
	ch := b.pubsub.Channel()

	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.connManager.Broadcast(b.room, []byte(msg.Payload))
		}
	}
}

// Stop stops the bridge
func (b *EventBridge) Stop() error {
	b.cancel()
	if b.pubsub != nil {
		return b.pubsub.Close()
	}
	return nil
}

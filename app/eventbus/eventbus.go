package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventBus is the in-process pub/sub fabric between the ledger service and
// its consumers (the persistence write-through, currently). Exactly one
// process owns a session, so a gochannel transport is all the coordination
// needed; publish order is preserved per topic.
type EventBus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

// New creates an event bus backed by an in-memory channel transport.
func New(logger *slog.Logger) *EventBus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
	return &EventBus{pubsub: pubsub, logger: logger}
}

// Publish marshals payload to JSON and publishes it on topic.
func (eb *EventBus) Publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := eb.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish on %s: %w", topic, err)
	}
	return nil
}

// Subscribe returns a channel of messages for topic. The channel closes
// when ctx is canceled or the bus is closed.
func (eb *EventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	messages, err := eb.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	return messages, nil
}

// Close shuts the transport down and closes all subscriber channels.
func (eb *EventBus) Close() error {
	if err := eb.pubsub.Close(); err != nil {
		eb.logger.Error("Failed to close event bus", slog.Any("error", err))
		return err
	}
	return nil
}

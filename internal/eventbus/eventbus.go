// Package eventbus carries the notification events emitted by the module
// services: "member.created", "member.change.approved", and so on. The exact
// transport is pluggable; production runs NATS JetStream, tests run the
// in-process gochannel pubsub.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/fstb-swiss/fstb-admin/internal/attr"
)

// EventBus publishes notification events for the caller-facing layers.
type EventBus interface {
	Publish(topic string, messages ...*message.Message) error
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

// NewNotificationMessage builds a watermill message with a JSON payload,
// propagating the context's correlation ID and setting a Nats-Msg-Id for
// JetStream deduplication.
func NewNotificationMessage(ctx context.Context, payload any) (*message.Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payloadBytes)
	msg.Metadata.Set(middleware.CorrelationIDMetadataKey, attr.CorrelationIDFromContext(ctx))
	msg.Metadata.Set("Nats-Msg-Id", msg.UUID)
	return msg, nil
}

// InProcessBus is a gochannel-backed bus for tests and single-process runs.
type InProcessBus struct {
	pubsub *gochannel.GoChannel
}

// NewInProcessBus creates an in-process event bus.
func NewInProcessBus(logger watermill.LoggerAdapter) *InProcessBus {
	return &InProcessBus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{}, logger),
	}
}

func (b *InProcessBus) Publish(topic string, messages ...*message.Message) error {
	return b.pubsub.Publish(topic, messages...)
}

func (b *InProcessBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

func (b *InProcessBus) Close() error {
	return b.pubsub.Close()
}

var _ EventBus = (*InProcessBus)(nil)

// Notification is the payload every mutating operation reports back to the
// caller-facing layers: which entity changed and a human-readable message.
type Notification struct {
	Entity  string `json:"entity"`
	UUID    string `json:"uuid"`
	Message string `json:"message"`
}

// Package events relays change signals between service instances over
// Kafka. With more than one instance behind a load balancer, a mutation on
// one instance must still reach subscribers connected to the others; each
// instance publishes its mutations and re-broadcasts everyone else's into
// its local hub. The relay is optional: without configured brokers, the
// in-process hub alone serves all subscribers.
package events

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/wanderdesk/service-bookings/internal/notifier"
)

// DefaultTopic is the relay topic when none is configured.
const DefaultTopic = "bookings.changed"

const publishTimeout = 5 * time.Second

// ChangeEvent is the wire payload on the relay topic. It intentionally
// carries no booking data: subscribers re-fetch whatever they need.
type ChangeEvent struct {
	Event      string    `json:"event"`
	Origin     string    `json:"origin"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer publishes change events to the relay topic.
type Producer struct {
	writer *kafkago.Writer
	origin string
	logger *zap.Logger
}

// NewProducer creates a Producer identified by origin (the instance ID, used
// by consumers to skip their own events).
func NewProducer(brokers []string, topic, origin string, logger *zap.Logger) *Producer {
	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: writer, origin: origin, logger: logger}
}

// Publish sends one change event. Failures are logged and swallowed; the
// mutation already committed and local subscribers were already signalled.
func (p *Producer) Publish(ctx context.Context) {
	evt := ChangeEvent{
		Event:      "booking_changed",
		Origin:     p.origin,
		OccurredAt: time.Now().UTC(),
	}
	value, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("failed to encode change event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(p.origin),
		Value: value,
	}); err != nil {
		p.logger.Error("failed to publish change event", zap.Error(err))
	}
}

// Close closes the underlying Kafka writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// RelayNotifier signals the local hub and publishes to the relay topic. It
// satisfies the application layer's Notifier contract.
type RelayNotifier struct {
	hub      *notifier.Hub
	producer *Producer
}

// NewRelayNotifier creates a RelayNotifier over the given hub and producer.
func NewRelayNotifier(hub *notifier.Hub, producer *Producer) *RelayNotifier {
	return &RelayNotifier{hub: hub, producer: producer}
}

// Broadcast signals local subscribers immediately and publishes the relay
// event in the background.
func (n *RelayNotifier) Broadcast() {
	n.hub.Broadcast()
	go n.producer.Publish(context.Background())
}

// ChangeConsumer feeds relayed change events from other instances into the
// local hub.
type ChangeConsumer struct {
	reader *kafkago.Reader
	hub    *notifier.Hub
	origin string
	logger *zap.Logger
}

// NewChangeConsumer creates a consumer in its own group (groupID must be
// unique per instance so every instance sees every event).
func NewChangeConsumer(brokers []string, groupID, topic, origin string, hub *notifier.Hub, logger *zap.Logger) *ChangeConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 1e6,
	})
	return &ChangeConsumer{reader: reader, hub: hub, origin: origin, logger: logger}
}

// Start consumes relay events until the context is cancelled.
func (c *ChangeConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("failed to read change event", zap.Error(err))
			continue
		}

		var evt ChangeEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			c.logger.Error("failed to parse change event",
				zap.Error(err),
				zap.String("raw", string(msg.Value)),
			)
			continue
		}

		// Local subscribers were already signalled by the originating call.
		if evt.Origin == c.origin {
			continue
		}
		c.hub.Broadcast()
	}
}

// Close closes the underlying Kafka reader.
func (c *ChangeConsumer) Close() error {
	return c.reader.Close()
}

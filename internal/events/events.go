package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/logging"
)

const Topic = "shop_events"

// Producer publishes shop events (cart, order, item). A nil Producer is a
// no-op.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Publish ships the event keyed by user so per-user ordering holds. Delivery
// failures are logged, never surfaced.
func (p *Producer) Publish(ctx context.Context, key string, event map[string]any) {
	if p == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logging.FromContext(ctx).Error("event marshal failed", "error", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	msg := kafka.Message{Key: []byte(key), Value: data, Time: time.Now().UTC()}
	if err := p.writer.WriteMessages(pubCtx, msg); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "error", err)
	}
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}

// Package publisher puts order events and POS receipts on Kafka.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/order"
)

// Producer is satisfied by *broker.KafkaProducer.
type Producer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type KafkaPublisher struct {
	events   Producer
	receipts Producer
}

var (
	_ order.EventPublisher = (*KafkaPublisher)(nil)
	_ order.ReceiptSink    = (*KafkaPublisher)(nil)
)

func NewKafkaPublisher(events, receipts Producer) *KafkaPublisher {
	return &KafkaPublisher{events: events, receipts: receipts}
}

// PublishEvent keys events by order so one order's history stays ordered.
func (p *KafkaPublisher) PublishEvent(ctx context.Context, event *order.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.EventType, err)
	}
	return p.events.Publish(ctx, event.Payload.OrderID, data)
}

func (p *KafkaPublisher) Accept(ctx context.Context, receipt *model.Receipt) error {
	data, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}
	return p.receipts.Publish(ctx, receipt.OrderID, data)
}

package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/inventory"
	"github.com/fekuna/omnipos-grocery-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const EventStockReceived = "StockReceived"

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type InventoryListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting delivery listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping delivery listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

// StockReceivedEvent is published by the receiving desk when a supplier
// delivery is booked in.
type StockReceivedEvent struct {
	EventID   string               `json:"event_id"`
	EventType string               `json:"event_type"`
	Payload   StockReceivedPayload `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

type StockReceivedPayload struct {
	DeliveryID   string          `json:"delivery_id"`
	ProductID    string          `json:"product_id"`
	Units        decimal.Decimal `json:"units"`
	BuyingPrice  decimal.Decimal `json:"buying_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ExpireDate   *time.Time      `json:"expire_date"`
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var event StockReceivedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != EventStockReceived {
		return
	}

	p := event.Payload
	l.logger.Info("Processing StockReceived event",
		zap.String("delivery_id", p.DeliveryID),
		zap.String("product_id", p.ProductID),
	)

	input := &dto.MergeBatchInput{
		ProductID:    p.ProductID,
		Units:        p.Units,
		BuyingPrice:  p.BuyingPrice,
		SellingPrice: p.SellingPrice,
	}
	if p.ExpireDate != nil {
		input.ExpireDate = *p.ExpireDate
	}

	ctx = inventory.WithReference(ctx, inventory.RefDelivery, p.DeliveryID)
	b, err := l.uc.MergeOrCreateBatch(ctx, input)
	if err != nil {
		l.logger.Error("Failed to book delivery",
			zap.String("delivery_id", p.DeliveryID),
			zap.String("product_id", p.ProductID),
			zap.Error(err),
		)
		return
	}

	l.logger.Debug("Delivery booked", zap.String("batch_id", b.ID), zap.String("units", b.Units.String()))
}

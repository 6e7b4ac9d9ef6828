// Package notification schedules the reminders sent to customers who buy on
// store credit.
package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const EventLoanIssued = "LoanIssued"

// Deduper is satisfied by *cache.RedisClient.
type Deduper interface {
	SetOnce(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
}

// Producer is satisfied by *broker.KafkaProducer.
type Producer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type LoanEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   LoanPayload `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type LoanPayload struct {
	OrderID   string          `json:"order_id"`
	UserID    string          `json:"user_id"`
	DueAmount decimal.Decimal `json:"due_amount"`
}

type LoanNotifier struct {
	dedup    Deduper
	producer Producer
	ttl      time.Duration
	logger   logger.ZapLogger
	now      func() time.Time
}

// NewLoanNotifier builds the trigger. dedup may be nil, in which case every
// call publishes.
func NewLoanNotifier(dedup Deduper, producer Producer, ttl time.Duration, log logger.ZapLogger) *LoanNotifier {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &LoanNotifier{
		dedup:    dedup,
		producer: producer,
		ttl:      ttl,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func dedupKey(orderID string) string {
	return "notify:loan:" + orderID
}

// EnqueueLoanNotification publishes one reminder per order. Errors are
// logged and swallowed.
func (n *LoanNotifier) EnqueueLoanNotification(ctx context.Context, orderID, userID string, due decimal.Decimal) {
	if n.dedup != nil {
		fresh, err := n.dedup.SetOnce(ctx, dedupKey(orderID), userID, n.ttl)
		if err != nil {
			// Redis trouble should not cost the customer a reminder.
			n.logger.Warn("loan notification dedup failed", zap.String("order_id", orderID), zap.Error(err))
		} else if !fresh {
			n.logger.Debug("loan notification already queued", zap.String("order_id", orderID))
			return
		}
	}

	data, err := json.Marshal(LoanEvent{
		EventID:   uuid.New().String(),
		EventType: EventLoanIssued,
		Payload:   LoanPayload{OrderID: orderID, UserID: userID, DueAmount: due},
		Timestamp: n.now(),
	})
	if err != nil {
		n.logger.Error("failed to marshal loan notification", zap.String("order_id", orderID), zap.Error(err))
		return
	}

	if err := n.producer.Publish(ctx, userID, data); err != nil {
		n.logger.Error("failed to publish loan notification",
			zap.String("order_id", orderID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return
	}
	n.logger.Info("loan notification queued", zap.String("order_id", orderID), zap.String("user_id", userID))
}

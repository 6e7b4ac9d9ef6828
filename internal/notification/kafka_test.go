package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryDedup struct {
	keys map[string]time.Duration
	err  error
}

func (m *memoryDedup) SetOnce(_ context.Context, key string, _ interface{}, ttl time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = ttl
	return true, nil
}

type message struct {
	key   string
	value []byte
}

type recordingProducer struct {
	msgs []message
	err  error
}

func (p *recordingProducer) Publish(_ context.Context, key string, value []byte) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, message{key: key, value: value})
	return nil
}

func TestLoanNotifier_PublishesOncePerOrder(t *testing.T) {
	dedup := &memoryDedup{keys: map[string]time.Duration{}}
	producer := &recordingProducer{}
	n := NewLoanNotifier(dedup, producer, time.Hour, logger.NewNop())

	ctx := context.Background()
	n.EnqueueLoanNotification(ctx, "o1", "u1", decimal.RequireFromString("42.50"))
	n.EnqueueLoanNotification(ctx, "o1", "u1", decimal.RequireFromString("42.50"))
	n.EnqueueLoanNotification(ctx, "o2", "u1", decimal.RequireFromString("3"))

	require.Len(t, producer.msgs, 2)
	assert.Equal(t, "u1", producer.msgs[0].key)
	assert.Equal(t, time.Hour, dedup.keys["notify:loan:o1"])

	var ev LoanEvent
	require.NoError(t, json.Unmarshal(producer.msgs[0].value, &ev))
	assert.Equal(t, EventLoanIssued, ev.EventType)
	assert.Equal(t, "o1", ev.Payload.OrderID)
	assert.True(t, ev.Payload.DueAmount.Equal(decimal.RequireFromString("42.5")))
}

func TestLoanNotifier_DedupFailureStillPublishes(t *testing.T) {
	producer := &recordingProducer{}
	n := NewLoanNotifier(&memoryDedup{err: errors.New("redis down")}, producer, 0, logger.NewNop())

	n.EnqueueLoanNotification(context.Background(), "o1", "u1", decimal.NewFromInt(10))

	assert.Len(t, producer.msgs, 1)
}

func TestLoanNotifier_PublishErrorIsSwallowed(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker unavailable")}
	n := NewLoanNotifier(nil, producer, time.Hour, logger.NewNop())

	assert.NotPanics(t, func() {
		n.EnqueueLoanNotification(context.Background(), "o1", "u1", decimal.NewFromInt(10))
	})
	assert.Empty(t, producer.msgs)
}

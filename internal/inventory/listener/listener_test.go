package listener

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/inventory"
	"github.com/fekuna/omnipos-grocery-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queueReader struct {
	msgs chan kafka.Message
}

func (q *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-q.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

type recordingLedger struct {
	inventory.UseCase

	mu     sync.Mutex
	inputs []dto.MergeBatchInput
	refs   []string
	done   chan struct{}
}

func (r *recordingLedger) MergeOrCreateBatch(ctx context.Context, input *dto.MergeBatchInput) (*model.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, *input)
	if _, id := inventory.ReferenceFrom(ctx); id != nil {
		r.refs = append(r.refs, *id)
	}
	r.done <- struct{}{}
	return &model.Batch{ID: "b1", Units: input.Units}, nil
}

func TestInventoryListener_BooksStockReceived(t *testing.T) {
	reader := &queueReader{msgs: make(chan kafka.Message, 3)}
	ledger := &recordingLedger{done: make(chan struct{}, 3)}
	l := NewInventoryListener(reader, ledger, logger.NewNop())

	reader.msgs <- kafka.Message{Value: []byte(`not json`)}
	reader.msgs <- kafka.Message{Value: []byte(`{"event_type":"OrderCreated","payload":{"product_id":"p1"}}`)}
	reader.msgs <- kafka.Message{Value: []byte(`{
        "event_id": "e1",
        "event_type": "StockReceived",
        "payload": {
            "delivery_id": "d-42",
            "product_id": "p1",
            "units": "12.5",
            "buying_price": 1.2,
            "selling_price": "2",
            "expire_date": "2025-03-01T00:00:00Z"
        }
    }`)}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(stopped)
	}()

	select {
	case <-ledger.done:
	case <-time.After(5 * time.Second):
		t.Fatal("delivery was not booked")
	}
	cancel()
	<-stopped

	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	require.Len(t, ledger.inputs, 1)
	in := ledger.inputs[0]
	assert.Equal(t, "p1", in.ProductID)
	assert.Equal(t, "12.5", in.Units.String())
	assert.Equal(t, "1.2", in.BuyingPrice.String())
	assert.True(t, in.ExpireDate.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"d-42"}, ledger.refs)
}

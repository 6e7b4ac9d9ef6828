package handler

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/order"
	"github.com/fekuna/omnipos-grocery-service/internal/order/dto"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// stubOrders answers with canned values and keeps the decoded inputs.
type stubOrders struct {
	order.UseCase

	pos      *dto.CreatePosOrderInput
	status   *dto.UpdateStatusInput
	warnings []string
	err      error
}

func (s *stubOrders) CreatePosOrder(_ context.Context, input *dto.CreatePosOrderInput) (*model.Order, *model.Receipt, error) {
	s.pos = input
	if s.err != nil {
		return nil, nil, s.err
	}
	o := &model.Order{
		BaseModel:     model.BaseModel{ID: "o-1"},
		PaymentMethod: input.PaymentMethod,
		TotalAmount:   input.TotalAmount,
		Status:        model.StatusCompleted,
		OrderDate:     time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		OrderType:     model.OrderTypePOS,
	}
	r := &model.Receipt{
		OrderID:     o.ID,
		OrderDate:   o.OrderDate,
		TotalAmount: o.TotalAmount,
		Items: []model.ReceiptItem{{
			ProductID:    input.Items[0].ProductID,
			ProductName:  "Rice",
			Units:        input.Items[0].Units,
			SellingPrice: decimal.RequireFromString("4.2"),
			Subtotal:     decimal.RequireFromString("10.5"),
		}},
	}
	return o, r, nil
}

func (s *stubOrders) UpdateOrderStatus(_ context.Context, input *dto.UpdateStatusInput) (*model.Order, []string, error) {
	s.status = input
	if s.err != nil {
		return nil, nil, s.err
	}
	return &model.Order{BaseModel: model.BaseModel{ID: input.ID}, Status: model.OrderStatus(input.Status)}, s.warnings, nil
}

func mustStruct(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestCreatePosOrder_DecodesAndReturnsReceipt(t *testing.T) {
	stub := &stubOrders{}
	h := NewOrderHandler(stub, logger.NewNop())

	resp, err := h.CreatePosOrder(context.Background(), mustStruct(t, map[string]interface{}{
		"payment_method": model.PaymentCredit,
		"total_amount":   "10.50",
		"items": []interface{}{
			map[string]interface{}{"product_id": "rice", "units": 2.5},
		},
		"credit_customer": map[string]interface{}{"first_name": "Nimal", "phone": "0771234567"},
	}))
	require.NoError(t, err)

	require.NotNil(t, stub.pos)
	require.Len(t, stub.pos.Items, 1)
	assert.True(t, stub.pos.Items[0].Units.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, stub.pos.TotalAmount.Equal(decimal.RequireFromString("10.5")))
	require.NotNil(t, stub.pos.CreditCustomer)
	assert.Equal(t, "0771234567", stub.pos.CreditCustomer.Phone)

	o := resp.Fields["order"].GetStructValue()
	require.NotNil(t, o)
	assert.Equal(t, "o-1", o.Fields["id"].GetStringValue())
	assert.Equal(t, "10.5", o.Fields["total_amount"].GetStringValue())

	date, err := time.Parse(time.RFC3339, o.Fields["order_date"].GetStringValue())
	require.NoError(t, err)
	assert.True(t, date.Equal(time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)))

	receipt := resp.Fields["receipt"].GetStructValue()
	require.NotNil(t, receipt)
	items := receipt.Fields["items"].GetListValue().GetValues()
	require.Len(t, items, 1)
	line := items[0].GetStructValue()
	assert.Equal(t, "Rice", line.Fields["product_name"].GetStringValue())
	assert.Equal(t, "2.5", line.Fields["units"].GetStringValue())

	_, hasWarnings := resp.Fields["warnings"]
	assert.False(t, hasWarnings)
}

func TestCreatePosOrder_MapsStockError(t *testing.T) {
	stub := &stubOrders{err: apperror.InsufficientStock("rice", decimal.NewFromInt(5), decimal.NewFromInt(2))}
	h := NewOrderHandler(stub, logger.NewNop())

	_, err := h.CreatePosOrder(context.Background(), mustStruct(t, map[string]interface{}{
		"items": []interface{}{map[string]interface{}{"product_id": "rice", "units": 5}},
	}))
	require.Error(t, err)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestCreatePosOrder_MalformedUnits(t *testing.T) {
	h := NewOrderHandler(&stubOrders{}, logger.NewNop())

	_, err := h.CreatePosOrder(context.Background(), mustStruct(t, map[string]interface{}{
		"items": []interface{}{map[string]interface{}{"product_id": "rice", "units": "lots"}},
	}))
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestUpdateOrderStatus_ReturnsWarnings(t *testing.T) {
	stub := &stubOrders{warnings: []string{"batch b-1 not found for product rice: 2 units not returned to stock"}}
	h := NewOrderHandler(stub, logger.NewNop())

	resp, err := h.UpdateOrderStatus(context.Background(), mustStruct(t, map[string]interface{}{
		"id":     "o-1",
		"status": "CANCELLED",
	}))
	require.NoError(t, err)

	require.NotNil(t, stub.status)
	assert.Equal(t, "o-1", stub.status.ID)
	assert.Equal(t, "CANCELLED", stub.status.Status)

	assert.Equal(t, "CANCELLED", resp.Fields["order"].GetStructValue().Fields["status"].GetStringValue())
	warnings := resp.Fields["warnings"].GetListValue().GetValues()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].GetStringValue(), "b-1")
}

func TestUpdateOrderStatus_MapsIllegalState(t *testing.T) {
	stub := &stubOrders{err: apperror.IllegalState("order %s is cancelled", "o-1")}
	h := NewOrderHandler(stub, logger.NewNop())

	_, err := h.UpdateOrderStatus(context.Background(), mustStruct(t, map[string]interface{}{
		"id":     "o-1",
		"status": "PENDING",
	}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

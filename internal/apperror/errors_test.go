package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fekuna/omnipos-grocery-service/pkg/i18n"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestMatchersSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("allocate: %w", InsufficientStock("p1", decimal.NewFromInt(5), decimal.NewFromInt(3)))

	assert.True(t, IsInsufficientStock(err))
	assert.False(t, IsNotFound(err))

	var stock *InsufficientStockError
	require.True(t, errors.As(err, &stock))
	assert.Equal(t, "p1", stock.ProductID)
	assert.True(t, stock.Required.Equal(decimal.NewFromInt(5)))
	assert.True(t, stock.Available.Equal(decimal.NewFromInt(3)))
}

func TestStockShortfallSortsProducts(t *testing.T) {
	err := StockShortfall("order o1 cannot be completed", []InsufficientStockError{
		{ProductID: "b", Required: decimal.NewFromInt(2), Available: decimal.Zero},
		{ProductID: "a", Required: decimal.NewFromInt(4), Available: decimal.NewFromInt(1)},
	})

	var illegal *IllegalStateError
	require.True(t, errors.As(err, &illegal))
	require.Len(t, illegal.Shortfalls, 2)
	assert.Equal(t, "a", illegal.Shortfalls[0].ProductID)
	assert.Contains(t, err.Error(), "a (required 4, available 1); b (required 2, available 0)")
}

func TestToStatusCodes(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		err  error
		code codes.Code
	}{
		{Validation("units", "must be positive"), codes.InvalidArgument},
		{NotFound("order", "o1"), codes.NotFound},
		{InsufficientStock("p1", decimal.NewFromInt(5), decimal.NewFromInt(3)), codes.FailedPrecondition},
		{IllegalState("order is COMPLETED"), codes.FailedPrecondition},
		{Conflict("barcode 123 already exists"), codes.AlreadyExists},
		{errors.New("db is down"), codes.Internal},
		{status.Error(codes.Unauthenticated, "who"), codes.Unauthenticated},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, status.Code(ToStatus(ctx, tc.err)), tc.err.Error())
	}
	assert.NoError(t, ToStatus(ctx, nil))
}

func TestToStatusLocalizes(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("accept-language", "id"))
	st, _ := status.FromError(ToStatus(ctx, NotFound("product", "p9")))
	assert.Equal(t, "product p9 tidak ditemukan", st.Message())

	st, _ = status.FromError(ToStatus(context.Background(), errors.New("boom")))
	assert.Equal(t, "internal error", st.Message())
}

package handler

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/product"
	"github.com/fekuna/omnipos-grocery-service/internal/product/dto"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubCatalog struct {
	product.UseCase

	created *dto.CreateProductInput
	err     error
}

func (s *stubCatalog) CreateProduct(_ context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	s.created = input
	if s.err != nil {
		return nil, s.err
	}
	barcode := input.Barcode
	return &model.Product{
		BaseModel:    model.BaseModel{ID: "p-1"},
		Name:         input.Name,
		UnitType:     model.UnitWeight,
		Barcode:      &barcode,
		TotalUnits:   input.Units,
		SellingPrice: decimal.NewNullDecimal(input.SellingPrice),
		ExpireDate:   input.ExpireDate,
	}, nil
}

func TestCreateProduct_RoundTrip(t *testing.T) {
	stub := &stubCatalog{}
	h := NewProductHandler(stub, logger.NewNop())

	req, err := structpb.NewStruct(map[string]interface{}{
		"name":          "Basmati Rice",
		"unit_type":     "WEIGHT",
		"barcode":       "4791234",
		"units":         2.5,
		"buying_price":  "3.10",
		"selling_price": "4.20",
		"expire_date":   "2027-01-15T00:00:00Z",
	})
	require.NoError(t, err)

	resp, err := h.CreateProduct(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, stub.created)
	assert.True(t, stub.created.Units.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, stub.created.BuyingPrice.Equal(decimal.RequireFromString("3.1")))
	require.NotNil(t, stub.created.ExpireDate)
	assert.True(t, stub.created.ExpireDate.Equal(time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)))

	p := resp.Fields["product"].GetStructValue()
	require.NotNil(t, p)
	assert.Equal(t, "Basmati Rice", p.Fields["name"].GetStringValue())
	assert.Equal(t, "4791234", p.Fields["barcode"].GetStringValue())
	assert.Equal(t, "2.5", p.Fields["total_units"].GetStringValue())
	assert.Equal(t, "4.2", p.Fields["selling_price"].GetStringValue())
}

func TestCreateProduct_MapsConflict(t *testing.T) {
	stub := &stubCatalog{err: apperror.Conflict("barcode %s is already used", "4791234")}
	h := NewProductHandler(stub, logger.NewNop())

	req, err := structpb.NewStruct(map[string]interface{}{"name": "Rice", "barcode": "4791234"})
	require.NoError(t, err)

	_, err = h.CreateProduct(context.Background(), req)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

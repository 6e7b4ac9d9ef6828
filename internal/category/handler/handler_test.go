package handler

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/category"
	"github.com/fekuna/omnipos-grocery-service/internal/category/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubCategories struct {
	category.UseCase

	created *dto.CreateCategoryInput
}

func (s *stubCategories) CreateCategory(_ context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	s.created = input
	return &model.Category{BaseModel: model.BaseModel{ID: "c-1"}, Name: input.Name, Description: &input.Description}, nil
}

func (s *stubCategories) GetCategory(_ context.Context, id string) (*model.Category, error) {
	return nil, apperror.NotFound("category", id)
}

func TestCategoryHandler(t *testing.T) {
	stub := &stubCategories{}
	h := NewCategoryHandler(stub, logger.NewNop())
	ctx := context.Background()

	req, err := structpb.NewStruct(map[string]interface{}{"name": "Dairy", "description": "Milk and cheese"})
	require.NoError(t, err)

	resp, err := h.CreateCategory(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, stub.created)
	assert.Equal(t, "Dairy", stub.created.Name)

	cat := resp.Fields["category"].GetStructValue()
	require.NotNil(t, cat)
	assert.Equal(t, "c-1", cat.Fields["id"].GetStringValue())
	assert.Equal(t, "Milk and cheese", cat.Fields["description"].GetStringValue())

	req, err = structpb.NewStruct(map[string]interface{}{"id": "missing"})
	require.NoError(t, err)
	_, err = h.GetCategory(ctx, req)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

package handler

import (
	"context"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/category"
	"github.com/fekuna/omnipos-grocery-service/internal/category/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/fekuna/omnipos-grocery-service/pkg/rpc"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) CreateCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CreateCategoryInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	cat, err := h.uc.CreateCategory(ctx, &input)
	if err != nil {
		h.logger.Error("failed to create category", zap.Error(err))
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(categoryResponse{Category: cat})
}

func (h *CategoryHandler) GetCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.GetCategoryInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	cat, err := h.uc.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(categoryResponse{Category: cat})
}

func (h *CategoryHandler) ListCategories(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.CategoryFilters
	if err := rpc.Decode(req, &filters); err != nil {
		return nil, err
	}

	cats, count, err := h.uc.ListCategories(ctx, &filters)
	if err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(listCategoriesResponse{Categories: cats, Total: count})
}

func (h *CategoryHandler) UpdateCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.UpdateCategoryInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	cat, err := h.uc.UpdateCategory(ctx, &input)
	if err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(categoryResponse{Category: cat})
}

func (h *CategoryHandler) DeleteCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.GetCategoryInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	if err := h.uc.DeleteCategory(ctx, input.ID); err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return &structpb.Struct{}, nil
}

type categoryResponse struct {
	Category *model.Category `json:"category"`
}

type listCategoriesResponse struct {
	Categories []model.Category `json:"categories"`
	Total      int              `json:"total"`
}

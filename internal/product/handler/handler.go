package handler

import (
	"context"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/product"
	"github.com/fekuna/omnipos-grocery-service/internal/product/dto"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/fekuna/omnipos-grocery-service/pkg/rpc"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) CreateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CreateProductInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	p, err := h.uc.CreateProduct(ctx, &input)
	if err != nil {
		h.logger.Error("failed to create product", zap.String("name", input.Name), zap.Error(err))
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(productResponse{Product: p})
}

func (h *ProductHandler) UpdateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.UpdateProductInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	p, err := h.uc.UpdateProduct(ctx, &input)
	if err != nil {
		h.logger.Error("failed to update product", zap.String("product_id", input.ID), zap.Error(err))
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(productResponse{Product: p})
}

func (h *ProductHandler) GetProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.GetProductInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	p, err := h.uc.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(productResponse{Product: p})
}

func (h *ProductHandler) GetProductByBarcode(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.GetByBarcodeInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	p, err := h.uc.GetProductByBarcode(ctx, input.Barcode)
	if err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(productResponse{Product: p})
}

func (h *ProductHandler) ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.ProductFilters
	if err := rpc.Decode(req, &filters); err != nil {
		return nil, err
	}

	products, count, err := h.uc.ListProducts(ctx, &filters)
	if err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(listProductsResponse{Products: products, Total: count})
}

func (h *ProductHandler) SearchProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.SearchInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	products, count, err := h.uc.SearchProducts(ctx, &input)
	if err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(listProductsResponse{Products: products, Total: count})
}

func (h *ProductHandler) DeleteProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.GetProductInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	if err := h.uc.DeleteProduct(ctx, input.ID); err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return &structpb.Struct{}, nil
}

func (h *ProductHandler) RestockProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.RestockProductInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	p, err := h.uc.RestockProduct(ctx, &input)
	if err != nil {
		h.logger.Error("failed to restock product", zap.String("product_id", input.ProductID), zap.Error(err))
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(productResponse{Product: p})
}

type productResponse struct {
	Product *model.Product `json:"product"`
}

type listProductsResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
}

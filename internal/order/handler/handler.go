package handler

import (
	"context"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/order"
	"github.com/fekuna/omnipos-grocery-service/internal/order/dto"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/fekuna/omnipos-grocery-service/pkg/rpc"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) CreateEcommerceOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CreateEcommerceOrderInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	o, err := h.uc.CreateEcommerceOrder(ctx, &input)
	if err != nil {
		h.logger.Error("failed to create online order", zap.String("username", input.Username), zap.Error(err))
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(orderResponse{Order: o})
}

func (h *OrderHandler) CreatePosOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CreatePosOrderInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	o, receipt, err := h.uc.CreatePosOrder(ctx, &input)
	if err != nil {
		h.logger.Error("failed to create pos order", zap.Int("items", len(input.Items)), zap.Error(err))
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(orderResponse{Order: o, Receipt: receipt})
}

func (h *OrderHandler) UpdateOrderStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.UpdateStatusInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	o, warnings, err := h.uc.UpdateOrderStatus(ctx, &input)
	if err != nil {
		h.logger.Error("failed to update order status",
			zap.String("order_id", input.ID),
			zap.String("status", input.Status),
			zap.Error(err),
		)
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(orderResponse{Order: o, Warnings: warnings})
}

func (h *OrderHandler) GetOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.GetOrderInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	o, err := h.uc.GetOrder(ctx, input.ID)
	if err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(orderResponse{Order: o})
}

func (h *OrderHandler) ListOrders(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.OrderFilters
	if err := rpc.Decode(req, &filters); err != nil {
		return nil, err
	}

	orders, count, err := h.uc.ListOrders(ctx, &filters)
	if err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(listOrdersResponse{Orders: orders, Total: count})
}

func (h *OrderHandler) GetReceipt(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.GetOrderInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	receipt, err := h.uc.GetReceipt(ctx, input.ID)
	if err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(receiptResponse{Receipt: receipt})
}

type orderResponse struct {
	Order    *model.Order   `json:"order"`
	Receipt  *model.Receipt `json:"receipt,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

type listOrdersResponse struct {
	Orders []model.Order `json:"orders"`
	Total  int           `json:"total"`
}

type receiptResponse struct {
	Receipt *model.Receipt `json:"receipt"`
}

package handler

import (
	"context"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/inventory"
	"github.com/fekuna/omnipos-grocery-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/fekuna/omnipos-grocery-service/pkg/rpc"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) ListBatches(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.ProductIDInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	batches, err := h.uc.ListBatches(ctx, input.ProductID)
	if err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}

	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.Units)
	}
	return rpc.Encode(listBatchesResponse{Batches: batches, TotalUnits: total})
}

func (h *InventoryHandler) GetBatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.BatchIDInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	b, err := h.uc.GetBatch(ctx, input.ID)
	if err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(batchResponse{Batch: b})
}

func (h *InventoryHandler) AddBatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.MergeBatchInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	ctx = inventory.WithReference(ctx, inventory.RefManual, input.ProductID)
	b, err := h.uc.MergeOrCreateBatch(ctx, &input)
	if err != nil {
		h.logger.Error("failed to add batch", zap.String("product_id", input.ProductID), zap.Error(err))
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(batchResponse{Batch: b})
}

func (h *InventoryHandler) UpdateBatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.UpdateBatchInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	ctx = inventory.WithReference(ctx, inventory.RefManual, input.ID)
	b, err := h.uc.UpdateBatch(ctx, &input)
	if err != nil {
		h.logger.Error("failed to update batch", zap.String("batch_id", input.ID), zap.Error(err))
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(batchResponse{Batch: b})
}

func (h *InventoryHandler) DeleteBatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.BatchIDInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, err
	}

	if err := h.uc.DeleteBatch(ctx, input.ID); err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return &structpb.Struct{}, nil
}

func (h *InventoryHandler) GetExpiringBatches(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.ExpiringFilters
	if err := rpc.Decode(req, &filters); err != nil {
		return nil, err
	}

	batches, err := h.uc.ExpiringBatches(ctx, filters.WithinDays)
	if err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(listBatchesResponse{Batches: batches})
}

func (h *InventoryHandler) ListMovements(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.MovementFilters
	if err := rpc.Decode(req, &filters); err != nil {
		return nil, err
	}

	mvs, count, err := h.uc.ListMovements(ctx, &filters)
	if err != nil {
		return nil, apperror.ToStatus(ctx, err)
	}
	return rpc.Encode(listMovementsResponse{Movements: mvs, Total: count})
}

type batchResponse struct {
	Batch *model.Batch `json:"batch"`
}

type listBatchesResponse struct {
	Batches    []model.Batch   `json:"batches"`
	TotalUnits decimal.Decimal `json:"total_units"`
}

type listMovementsResponse struct {
	Movements []model.StockMovement `json:"movements"`
	Total     int                   `json:"total"`
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/inventory"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/order"
	"github.com/fekuna/omnipos-grocery-service/internal/order/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (uc *orderUseCase) UpdateOrderStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Order, []string, error) {
	target := model.OrderStatus(strings.ToUpper(strings.TrimSpace(input.Status)))
	if !target.Valid() {
		return nil, nil, apperror.Validation("status", "invalid status %q, must be one of PENDING, PROCESSING, COMPLETED, CANCELLED", input.Status)
	}

	o, err := uc.GetOrder(ctx, input.ID)
	if err != nil {
		return nil, nil, err
	}

	var (
		previous model.OrderStatus
		warnings []string
	)
	ctx = inventory.WithReference(ctx, inventory.RefOrder, o.ID)
	err = uc.ledger.Exclusive(ctx, o.ProductIDs(), func(ctx context.Context) error {
		// Re-read under the locks; a concurrent transition may have won.
		fresh, err := uc.GetOrder(ctx, input.ID)
		if err != nil {
			return err
		}
		o = fresh
		previous = o.Status

		if o.Status == model.StatusCancelled && target != model.StatusCancelled {
			return apperror.IllegalState("order %s is cancelled and cannot move to %s", o.ID, target)
		}

		switch {
		case target == model.StatusProcessing:
			if o.Status != model.StatusPending {
				return apperror.IllegalState("order %s can only be set to PROCESSING from PENDING, current status is %s", o.ID, o.Status)
			}
		case target == model.StatusCompleted && o.OrderType == model.OrderTypeEcommerce && !o.InventoryAdjusted:
			if err := uc.fulfil(ctx, o); err != nil {
				return err
			}
		case target == model.StatusCancelled && o.InventoryAdjusted:
			warnings, err = uc.revert(ctx, o)
			if err != nil {
				return err
			}
		}

		o.Status = target
		o.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, o); err != nil {
			return fmt.Errorf("update order %s: %w", o.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	uc.logger.Info("order status updated",
		zap.String("order_id", o.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(o.Status)),
		zap.Bool("inventory_adjusted", o.InventoryAdjusted),
		zap.Int("warnings", len(warnings)),
	)
	if previous != o.Status || len(warnings) > 0 {
		uc.publish(ctx, order.EventOrderStatusChanged, o, previous, warnings)
	}
	return o, warnings, nil
}

// fulfil takes every item of an online order from stock, oldest batches
// first. Either all items are covered or nothing changes.
func (uc *orderUseCase) fulfil(ctx context.Context, o *model.Order) error {
	required := make(map[string]decimal.Decimal)
	var ids []string
	for _, it := range o.Items {
		if _, ok := required[it.ProductID]; !ok {
			ids = append(ids, it.ProductID)
		}
		required[it.ProductID] = required[it.ProductID].Add(it.Units)
	}

	var shortfalls []apperror.InsufficientStockError
	for _, id := range ids {
		available, err := uc.ledger.AvailableUnits(ctx, id)
		if err != nil {
			return err
		}
		if available.LessThan(required[id]) {
			shortfalls = append(shortfalls, apperror.InsufficientStockError{
				ProductID: id,
				Required:  required[id],
				Available: available,
			})
		}
	}
	if len(shortfalls) > 0 {
		return apperror.StockShortfall(fmt.Sprintf("cannot complete order %s", o.ID), shortfalls)
	}

	items := make([]model.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		allocs, err := uc.ledger.Allocate(ctx, it.ProductID, it.Units)
		if err != nil {
			return err
		}
		// One item per batch touched; the first keeps the original id.
		for i, a := range allocs {
			batchID := a.BatchID
			split := it
			if i > 0 {
				split.ID = uuid.New().String()
			}
			split.LineNo = len(items) + 1
			split.Units = a.Units
			split.BatchID = &batchID
			items = append(items, split)
		}
	}

	if err := uc.repo.ReplaceItems(ctx, o.ID, items); err != nil {
		return fmt.Errorf("attach batches to order %s: %w", o.ID, err)
	}
	o.Items = items
	o.InventoryAdjusted = true
	return nil
}

// revert returns the units of every allocated item to its batch. Items whose
// batch is gone keep their reference and become warnings; the order stays
// adjusted until a later cancellation returns them.
func (uc *orderUseCase) revert(ctx context.Context, o *model.Order) ([]string, error) {
	var warnings []string
	for i := range o.Items {
		it := &o.Items[i]
		if it.BatchID == nil {
			continue
		}
		if _, err := uc.ledger.Release(ctx, *it.BatchID, it.Units); err != nil {
			if !apperror.IsNotFound(err) {
				return nil, err
			}
			uc.logger.Warn("batch missing while cancelling order",
				zap.String("order_id", o.ID),
				zap.String("item_id", it.ID),
				zap.String("batch_id", *it.BatchID),
			)
			warnings = append(warnings, fmt.Sprintf("batch %s not found for product %s: %s units not returned to stock",
				*it.BatchID, it.ProductID, it.Units))
			continue
		}
		it.BatchID = nil
	}

	if err := uc.repo.ReplaceItems(ctx, o.ID, o.Items); err != nil {
		return nil, fmt.Errorf("detach batches from order %s: %w", o.ID, err)
	}
	o.InventoryAdjusted = len(warnings) > 0
	return warnings, nil
}

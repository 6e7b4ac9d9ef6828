package inventory

import (
	"context"

	"github.com/fekuna/omnipos-grocery-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/shopspring/decimal"
)

// UseCase is the batch ledger. Every change to batch units goes through it.
type UseCase interface {
	ListBatches(ctx context.Context, productID string) ([]model.Batch, error)
	AvailableUnits(ctx context.Context, productID string) (decimal.Decimal, error)
	// ReferencePrice is the selling price of the newest batch that still
	// has stock. ok is false when the product is sold out.
	ReferencePrice(ctx context.Context, productID string) (price decimal.Decimal, ok bool, err error)

	Allocate(ctx context.Context, productID string, units decimal.Decimal) ([]model.Allocation, error)
	Release(ctx context.Context, batchID string, units decimal.Decimal) (*model.Batch, error)
	Replenish(ctx context.Context, batchID string, units decimal.Decimal) (*model.Batch, error)
	MergeOrCreateBatch(ctx context.Context, input *dto.MergeBatchInput) (*model.Batch, error)

	GetBatch(ctx context.Context, id string) (*model.Batch, error)
	UpdateBatch(ctx context.Context, input *dto.UpdateBatchInput) (*model.Batch, error)
	DeleteBatch(ctx context.Context, id string) error
	ExpiringBatches(ctx context.Context, withinDays int) ([]model.Batch, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)

	// Exclusive runs fn holding the locks of every product in productIDs and
	// inside one database transaction. Calls nest.
	Exclusive(ctx context.Context, productIDs []string, fn func(ctx context.Context) error) error
}

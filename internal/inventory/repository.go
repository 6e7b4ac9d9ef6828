package inventory

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// Batches
	FindByID(ctx context.Context, id string) (*model.Batch, error)
	ListByProduct(ctx context.Context, productID string) ([]model.Batch, error)
	LatestWithStock(ctx context.Context, productID string) (*model.Batch, error)
	FindExpiring(ctx context.Context, from, to time.Time) ([]model.Batch, error)
	Create(ctx context.Context, batch *model.Batch) error
	Update(ctx context.Context, batch *model.Batch) error
	UpdateUnits(ctx context.Context, id string, units decimal.Decimal, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error

	// CountReferences counts order items still pointing at the batch.
	CountReferences(ctx context.Context, batchID string) (int, error)

	// Movements / Audit
	LogMovement(ctx context.Context, movement *model.StockMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}

// ProductReader is the slice of the catalog the ledger needs to check unit
// types.
type ProductReader interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}

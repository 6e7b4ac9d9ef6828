package order

import (
	"context"

	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/order/dto"
)

type Repository interface {
	// Create stores the order together with its items.
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	// Update writes status, inventory_adjusted and updated_at.
	Update(ctx context.Context, order *model.Order) error
	// ReplaceItems swaps the stored items of an order for items.
	ReplaceItems(ctx context.Context, orderID string, items []model.OrderItem) error
}

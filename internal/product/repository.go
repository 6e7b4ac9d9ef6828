package product

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateName(ctx context.Context, id, name string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error

	// Uniqueness and naming
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	FindByNameAndSupplier(ctx context.Context, supplierID string, names ...string) (*model.Product, error)
	// FindByBaseName lists the category's products without a barcode named
	// base, with or without a supplier suffix.
	FindByBaseName(ctx context.Context, categoryID, base string) ([]model.Product, error)

	// CountOrderItems counts order items still pointing at the product.
	CountOrderItems(ctx context.Context, id string) (int, error)
}

type CategoryReader interface {
	FindByID(ctx context.Context, id string) (*model.Category, error)
}

type SupplierReader interface {
	GetSupplier(ctx context.Context, id string) (*model.User, error)
}

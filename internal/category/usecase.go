package category

import (
	"context"

	"github.com/fekuna/omnipos-grocery-service/internal/category/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
)

// UseCase files products into categories. Names are unique ignoring case,
// and a category that still holds products cannot be deleted.
type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/category/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/category/repository"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/testutil"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryUseCase_CRUD(t *testing.T) {
	fx := testutil.NewFixture(t)
	uc := NewCategoryUseCase(repository.NewSQLRepository(fx.DB), logger.NewNop())
	ctx := context.Background()

	_, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "   "})
	assert.True(t, apperror.IsValidation(err), "got %v", err)

	_, err = uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "dairy"})
	assert.True(t, apperror.IsConflict(err), "names are unique ignoring case, got %v", err)

	bakery, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: " Bakery ", Description: "Bread and cakes"})
	require.NoError(t, err)
	assert.Equal(t, "Bakery", bakery.Name)
	require.NotNil(t, bakery.Description)

	list, total, err := uc.ListCategories(ctx, &dto.CategoryFilters{Name: "ak"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, bakery.ID, list[0].ID)

	updated, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: bakery.ID, Name: "Bakery & Pastry"})
	require.NoError(t, err)
	assert.Equal(t, "Bakery & Pastry", updated.Name)
	assert.Nil(t, updated.Description)

	_, err = uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: bakery.ID, Name: "Dairy"})
	assert.True(t, apperror.IsConflict(err), "got %v", err)

	require.NoError(t, uc.DeleteCategory(ctx, bakery.ID))
	_, err = uc.GetCategory(ctx, bakery.ID)
	assert.True(t, apperror.IsNotFound(err), "got %v", err)
}

func TestCategoryUseCase_DeleteInUse(t *testing.T) {
	fx := testutil.NewFixture(t)
	uc := NewCategoryUseCase(repository.NewSQLRepository(fx.DB), logger.NewNop())
	testutil.SeedProduct(t, fx.DB, "Milk", model.UnitDiscrete, fx.CategoryID, fx.SupplierID)

	err := uc.DeleteCategory(context.Background(), fx.CategoryID)
	assert.True(t, apperror.IsConflict(err), "got %v", err)

	_, err = uc.GetCategory(context.Background(), fx.CategoryID)
	assert.NoError(t, err)
}

package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	catrepo "github.com/fekuna/omnipos-grocery-service/internal/category/repository"
	"github.com/fekuna/omnipos-grocery-service/internal/inventory"
	invrepo "github.com/fekuna/omnipos-grocery-service/internal/inventory/repository"
	invusecase "github.com/fekuna/omnipos-grocery-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/product"
	"github.com/fekuna/omnipos-grocery-service/internal/product/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/product/repository"
	"github.com/fekuna/omnipos-grocery-service/internal/testutil"
	userrepo "github.com/fekuna/omnipos-grocery-service/internal/user/repository"
	userusecase "github.com/fekuna/omnipos-grocery-service/internal/user/usecase"
	"github.com/fekuna/omnipos-grocery-service/pkg/database"
	"github.com/fekuna/omnipos-grocery-service/pkg/lock"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/fekuna/omnipos-grocery-service/pkg/search"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	fx     *testutil.Fixture
	uc     product.UseCase
	ledger inventory.UseCase
}

func newEnv(t *testing.T, es product.SearchIndex) *env {
	t.Helper()
	fx := testutil.NewFixture(t)
	log := logger.NewNop()

	repo := repository.NewSQLRepository(fx.DB)
	ledger := invusecase.NewInventoryUseCase(
		invrepo.NewSQLRepository(fx.DB),
		repo,
		lock.NewLocalLocker(),
		database.NewTxManager(fx.DB),
		invusecase.Config{},
		log,
	)
	users := userusecase.NewUserUseCase(userrepo.NewSQLRepository(fx.DB), log)
	uc := NewProductUseCase(repo, catrepo.NewSQLRepository(fx.DB), users, ledger, nil, es, log)

	return &env{fx: fx, uc: uc, ledger: ledger}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (e *env) create(t *testing.T, name, supplierID string, mutate ...func(*dto.CreateProductInput)) (*model.Product, error) {
	t.Helper()
	input := &dto.CreateProductInput{
		Name:         name,
		CategoryID:   e.fx.CategoryID,
		SupplierID:   supplierID,
		Units:        dec("10"),
		BuyingPrice:  dec("1.50"),
		SellingPrice: dec("2.00"),
	}
	for _, m := range mutate {
		m(input)
	}
	return e.uc.CreateProduct(context.Background(), input)
}

func TestCreateProduct_Defaults(t *testing.T) {
	e := newEnv(t, nil)

	p, err := e.create(t, "  Milk  ", e.fx.SupplierID)
	require.NoError(t, err)

	assert.Equal(t, "Milk", p.Name)
	assert.Equal(t, model.UnitDiscrete, p.UnitType)
	assert.Equal(t, "Dairy", p.CategoryName)
	assert.Equal(t, "Fresh Farms", p.SupplierName)
	assert.Nil(t, p.Barcode)
	assert.True(t, p.TotalUnits.Equal(dec("10")))
	require.True(t, p.SellingPrice.Valid)
	assert.True(t, p.SellingPrice.Decimal.Equal(dec("2")))
	require.Len(t, p.Batches, 1)

	require.NotNil(t, p.ExpireDate)
	assert.True(t, p.ExpireDate.Equal(invusecase.Day(*p.ExpireDate)))
	assert.True(t, p.ExpireDate.After(time.Now().AddDate(0, 0, 360)))
}

func TestCreateProduct_UnitTypes(t *testing.T) {
	e := newEnv(t, nil)

	_, err := e.create(t, "Eggs", e.fx.SupplierID, func(in *dto.CreateProductInput) {
		in.Units = dec("2.5")
	})
	assert.True(t, apperror.IsValidation(err), "DISCRETE must reject 2.5, got %v", err)

	p, err := e.create(t, "Rice", e.fx.SupplierID, func(in *dto.CreateProductInput) {
		in.UnitType = "weight"
		in.Units = dec("2.5")
	})
	require.NoError(t, err)
	assert.Equal(t, model.UnitWeight, p.UnitType)
	assert.True(t, p.TotalUnits.Equal(dec("2.5")))

	_, err = e.create(t, "Flour", e.fx.SupplierID, func(in *dto.CreateProductInput) {
		in.UnitType = "VOLUME"
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestCreateProduct_Validation(t *testing.T) {
	e := newEnv(t, nil)

	tests := []struct {
		name   string
		mutate func(*dto.CreateProductInput)
		check  func(error) bool
	}{
		{"blank name", func(in *dto.CreateProductInput) { in.Name = " " }, apperror.IsValidation},
		{"buying above selling", func(in *dto.CreateProductInput) { in.BuyingPrice = dec("3") }, apperror.IsValidation},
		{"zero selling price", func(in *dto.CreateProductInput) { in.SellingPrice = dec("0") }, apperror.IsValidation},
		{"unknown category", func(in *dto.CreateProductInput) { in.CategoryID = "nope" }, apperror.IsNotFound},
		{"unknown supplier", func(in *dto.CreateProductInput) { in.SupplierID = "nope" }, apperror.IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.create(t, "Butter", e.fx.SupplierID, tt.mutate)
			assert.True(t, tt.check(err), "got %v", err)
		})
	}

	_, total, err := e.uc.ListProducts(context.Background(), &dto.ProductFilters{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreateProduct_SupplierSuffix(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	other := testutil.SeedSupplier(t, e.fx.DB, "Hill Dairy")
	third := testutil.SeedSupplier(t, e.fx.DB, "Lake Foods")

	first, err := e.create(t, "Milk", e.fx.SupplierID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", first.Name)

	second, err := e.create(t, "Milk", other)
	require.NoError(t, err)
	assert.Equal(t, "Milk (Hill Dairy)", second.Name)

	renamed, err := e.uc.GetProduct(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk (Fresh Farms)", renamed.Name)

	lakeMilk, err := e.create(t, "Milk", third)
	require.NoError(t, err)
	assert.Equal(t, "Milk (Lake Foods)", lakeMilk.Name)

	// Another category is a different namespace.
	bakery := testutil.SeedCategory(t, e.fx.DB, "Bakery")
	plain, err := e.create(t, "Milk", other, func(in *dto.CreateProductInput) {
		in.CategoryID = bakery
	})
	require.NoError(t, err)
	assert.Equal(t, "Milk", plain.Name)
}

func TestCreateProduct_BarcodeSkipsSupplierSuffix(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	hill := testutil.SeedSupplier(t, e.fx.DB, "Hill Dairy")
	lake := testutil.SeedSupplier(t, e.fx.DB, "Lake Foods")

	plain, err := e.create(t, "Milk", e.fx.SupplierID)
	require.NoError(t, err)

	barcoded, err := e.create(t, "Milk", hill, func(in *dto.CreateProductInput) {
		in.Barcode = "999"
	})
	require.NoError(t, err)
	assert.Equal(t, "Milk", barcoded.Name)

	got, err := e.uc.GetProduct(ctx, plain.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", got.Name)

	// A later product without a barcode only collides with the plain one.
	lakeMilk, err := e.create(t, "Milk", lake)
	require.NoError(t, err)
	assert.Equal(t, "Milk (Lake Foods)", lakeMilk.Name)

	got, err = e.uc.GetProduct(ctx, plain.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk (Fresh Farms)", got.Name)

	got, err = e.uc.GetProduct(ctx, barcoded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", got.Name)
}

func TestCreateProduct_Uniqueness(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	_, err := e.create(t, "Cheese", e.fx.SupplierID)
	require.NoError(t, err)

	_, err = e.create(t, "Cheese", e.fx.SupplierID)
	assert.True(t, apperror.IsConflict(err), "same name and supplier, got %v", err)

	withBarcode := func(code string) func(*dto.CreateProductInput) {
		return func(in *dto.CreateProductInput) { in.Barcode = code }
	}

	// Barcoded products skip the name check.
	p, err := e.create(t, "Cheese", e.fx.SupplierID, withBarcode("4791234"))
	require.NoError(t, err)

	_, err = e.create(t, "Gouda", e.fx.SupplierID, withBarcode(" 4791234 "))
	assert.True(t, apperror.IsConflict(err), "duplicate barcode, got %v", err)

	found, err := e.uc.GetProductByBarcode(ctx, "4791234")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	_, err = e.uc.GetProductByBarcode(ctx, "000")
	assert.True(t, apperror.IsNotFound(err))
}

func TestRestockProduct_NamedBatch(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	p, err := e.create(t, "Yoghurt", e.fx.SupplierID)
	require.NoError(t, err)
	batch := p.Batches[0]

	_, err = e.uc.RestockProduct(ctx, &dto.RestockProductInput{
		ProductID: p.ID, BatchID: batch.ID, Units: dec("5"),
		BuyingPrice: dec("1.50"), SellingPrice: dec("2.50"),
	})
	assert.True(t, apperror.IsValidation(err), "price mismatch, got %v", err)
	assert.True(t, testutil.BatchUnits(t, e.fx.DB, batch.ID).Equal(dec("10")))

	restocked, err := e.uc.RestockProduct(ctx, &dto.RestockProductInput{
		ProductID: p.ID, BatchID: batch.ID, Units: dec("5"),
		BuyingPrice: dec("1.5"), SellingPrice: dec("2"),
	})
	require.NoError(t, err)
	assert.True(t, restocked.TotalUnits.Equal(dec("15")))
	require.Len(t, restocked.Batches, 1)

	other, err := e.create(t, "Kefir", e.fx.SupplierID)
	require.NoError(t, err)
	_, err = e.uc.RestockProduct(ctx, &dto.RestockProductInput{
		ProductID: other.ID, BatchID: batch.ID, Units: dec("1"),
		BuyingPrice: dec("1.5"), SellingPrice: dec("2"),
	})
	assert.True(t, apperror.IsValidation(err), "foreign batch, got %v", err)

	_, err = e.uc.RestockProduct(ctx, &dto.RestockProductInput{
		ProductID: p.ID, BatchID: batch.ID, Units: dec("0.5"),
		BuyingPrice: dec("1.5"), SellingPrice: dec("2"),
	})
	assert.True(t, apperror.IsValidation(err), "fractional DISCRETE restock, got %v", err)
}

func TestRestockProduct_MergesWithoutBatch(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	p, err := e.create(t, "Cream", e.fx.SupplierID)
	require.NoError(t, err)
	expire := *p.ExpireDate

	same, err := e.uc.RestockProduct(ctx, &dto.RestockProductInput{
		ProductID: p.ID, Units: dec("2"), BuyingPrice: dec("1.5"), SellingPrice: dec("2"), ExpireDate: &expire,
	})
	require.NoError(t, err)
	require.Len(t, same.Batches, 1)
	assert.True(t, same.TotalUnits.Equal(dec("12")))

	fresh, err := e.uc.RestockProduct(ctx, &dto.RestockProductInput{
		ProductID: p.ID, Units: dec("3"), BuyingPrice: dec("1.6"), SellingPrice: dec("2.2"),
	})
	require.NoError(t, err)
	require.Len(t, fresh.Batches, 2)
	assert.True(t, fresh.TotalUnits.Equal(dec("15")))
	// FIFO head still decides the displayed price.
	assert.True(t, fresh.SellingPrice.Decimal.Equal(dec("2")))

	_, err = e.uc.RestockProduct(ctx, &dto.RestockProductInput{ProductID: "missing", Units: dec("1")})
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateProduct(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	p, err := e.create(t, "Oats", e.fx.SupplierID, func(in *dto.CreateProductInput) {
		in.UnitType = "WEIGHT"
		in.Units = dec("1.25")
	})
	require.NoError(t, err)

	input := dto.UpdateProductInput{
		ID:         p.ID,
		Name:       "Rolled Oats",
		UnitType:   "DISCRETE",
		CategoryID: e.fx.CategoryID,
		SupplierID: e.fx.SupplierID,
	}
	_, err = e.uc.UpdateProduct(ctx, &input)
	assert.True(t, apperror.IsValidation(err), "fractional stock blocks DISCRETE, got %v", err)

	input.UnitType = "WEIGHT"
	input.Units = dec("0.75")
	input.BuyingPrice = dec("3")
	input.SellingPrice = dec("4")
	updated, err := e.uc.UpdateProduct(ctx, &input)
	require.NoError(t, err)
	assert.Equal(t, "Rolled Oats", updated.Name)
	assert.True(t, updated.TotalUnits.Equal(dec("2")))
	assert.Len(t, updated.Batches, 2)

	_, err = e.uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: "missing", Name: "x"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteProduct(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	kept, err := e.create(t, "Ghee", e.fx.SupplierID)
	require.NoError(t, err)
	_, err = e.fx.DB.Exec(e.fx.DB.Rebind(`
        INSERT INTO order_items (id, order_id, line_no, product_id, units, selling_price, batch_id)
        VALUES ('item-1', 'order-1', 1, ?, 1, 2, NULL)
    `), kept.ID)
	require.NoError(t, err)

	err = e.uc.DeleteProduct(ctx, kept.ID)
	assert.True(t, apperror.IsConflict(err), "got %v", err)

	gone, err := e.create(t, "Paneer", e.fx.SupplierID)
	require.NoError(t, err)
	require.NoError(t, e.uc.DeleteProduct(ctx, gone.ID))

	_, err = e.uc.GetProduct(ctx, gone.ID)
	assert.True(t, apperror.IsNotFound(err))
	batches, err := e.ledger.ListBatches(ctx, gone.ID)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestListProducts_Filters(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	_, err := e.create(t, "Milk", e.fx.SupplierID)
	require.NoError(t, err)
	_, err = e.create(t, "Buttermilk", e.fx.SupplierID)
	require.NoError(t, err)
	bakery := testutil.SeedCategory(t, e.fx.DB, "Bakery")
	_, err = e.create(t, "Bread", e.fx.SupplierID, func(in *dto.CreateProductInput) { in.CategoryID = bakery })
	require.NoError(t, err)

	products, total, err := e.uc.ListProducts(ctx, &dto.ProductFilters{SearchQuery: "MILK", SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, products, 2)
	assert.Equal(t, "Buttermilk", products[0].Name)
	assert.True(t, products[0].TotalUnits.Equal(dec("10")))

	_, total, err = e.uc.ListProducts(ctx, &dto.ProductFilters{CategoryID: bakery})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	page, total, err := e.uc.ListProducts(ctx, &dto.ProductFilters{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 1)
}

type fakeIndex struct {
	mu       sync.Mutex
	docs     map[string]productDocument
	result   string
	failures bool
}

func (f *fakeIndex) CreateIndex(context.Context, string, string) error { return nil }

func (f *fakeIndex) Index(_ context.Context, _ string, id string, doc interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs == nil {
		f.docs = map[string]productDocument{}
	}
	f.docs[id] = doc.(productDocument)
	return nil
}

func (f *fakeIndex) Delete(context.Context, string, string) error { return nil }

func (f *fakeIndex) Search(context.Context, string, map[string]interface{}) (*search.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures {
		return nil, errors.New("connection refused")
	}
	var res search.SearchResult
	if err := json.Unmarshal([]byte(f.result), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (f *fakeIndex) doc(id string) (productDocument, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	return d, ok
}

func TestSearchProducts_UsesIndex(t *testing.T) {
	es := &fakeIndex{}
	e := newEnv(t, es)

	p, err := e.create(t, "Curd", e.fx.SupplierID)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		d, ok := es.doc(p.ID)
		return ok && d.SupplierName == "Fresh Farms" && d.CategoryName == "Dairy"
	}, 2*time.Second, 10*time.Millisecond)

	es.mu.Lock()
	es.result = `{"hits":{"total":{"value":1},"hits":[{"_id":"` + p.ID + `","_source":{"name":"Curd","unit_type":"DISCRETE"}}]}}`
	es.mu.Unlock()

	products, total, err := e.uc.SearchProducts(context.Background(), &dto.SearchInput{Query: "crud"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
	assert.True(t, products[0].TotalUnits.Equal(dec("10")))
}

func TestSearchProducts_FallsBackToSQL(t *testing.T) {
	es := &fakeIndex{failures: true}
	e := newEnv(t, es)

	_, err := e.create(t, "Curd", e.fx.SupplierID)
	require.NoError(t, err)
	_, err = e.create(t, "Butter", e.fx.SupplierID)
	require.NoError(t, err)

	products, total, err := e.uc.SearchProducts(context.Background(), &dto.SearchInput{Query: "cur"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "Curd", products[0].Name)
}

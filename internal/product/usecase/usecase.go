package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/inventory"
	invdto "github.com/fekuna/omnipos-grocery-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/product"
	"github.com/fekuna/omnipos-grocery-service/internal/product/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/validation"
	"github.com/fekuna/omnipos-grocery-service/pkg/cache"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type productUseCase struct {
	repo       product.Repository
	categories product.CategoryReader
	suppliers  product.SupplierReader
	ledger     inventory.UseCase
	cache      *cache.RedisClient
	es         product.SearchIndex
	logger     logger.ZapLogger
	now        func() time.Time
}

// NewProductUseCase wires the catalog. cache and es may be nil.
func NewProductUseCase(
	repo product.Repository,
	categories product.CategoryReader,
	suppliers product.SupplierReader,
	ledger inventory.UseCase,
	cache *cache.RedisClient,
	es product.SearchIndex,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:       repo,
		categories: categories,
		suppliers:  suppliers,
		ledger:     ledger,
		cache:      cache,
		es:         es,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("name", "is required")
	}
	unitType, err := parseUnitType(input.UnitType)
	if err != nil {
		return nil, err
	}
	if err := validation.BatchUnits(unitType, input.Units); err != nil {
		return nil, err
	}
	if err := validation.Prices(input.BuyingPrice, input.SellingPrice); err != nil {
		return nil, err
	}

	cat, supplier, err := uc.owners(ctx, input.CategoryID, input.SupplierID)
	if err != nil {
		return nil, err
	}
	barcode := optionalBarcode(input.Barcode)

	id := uuid.New().String()
	finalName, renames, err := uc.resolveName(ctx, id, name, cat.ID, supplier, barcode)
	if err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, id, name, finalName, supplier, barcode); err != nil {
		return nil, err
	}

	now := uc.now()
	p := &model.Product{
		BaseModel:    model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		Name:         finalName,
		UnitType:     unitType,
		CategoryID:   cat.ID,
		SupplierID:   supplier.ID,
		Barcode:      barcode,
		CategoryName: cat.Name,
		SupplierName: supplier.DisplayName(),
	}

	ctx = inventory.WithReference(ctx, inventory.RefProduct, id)
	err = uc.ledger.Exclusive(ctx, []string{id}, func(ctx context.Context) error {
		if err := uc.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if err := uc.applyRenames(ctx, renames, now); err != nil {
			return err
		}
		_, err := uc.ledger.MergeOrCreateBatch(ctx, &invdto.MergeBatchInput{
			ProductID:    id,
			Units:        input.Units,
			BuyingPrice:  input.BuyingPrice,
			SellingPrice: input.SellingPrice,
			ExpireDate:   derefTime(input.ExpireDate),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product created", zap.String("product_id", id), zap.String("name", p.Name))
	uc.afterWrite(append(renames, *p)...)

	return uc.GetProduct(ctx, id)
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.find(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("name", "is required")
	}
	unitType, err := parseUnitType(input.UnitType)
	if err != nil {
		return nil, err
	}
	if err := validation.BatchUnits(unitType, input.Units); err != nil {
		return nil, err
	}
	if input.Units.IsPositive() {
		if err := validation.Prices(input.BuyingPrice, input.SellingPrice); err != nil {
			return nil, err
		}
	}

	cat, supplier, err := uc.owners(ctx, input.CategoryID, input.SupplierID)
	if err != nil {
		return nil, err
	}
	barcode := optionalBarcode(input.Barcode)

	finalName, renames, err := uc.resolveName(ctx, p.ID, name, cat.ID, supplier, barcode)
	if err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, p.ID, name, finalName, supplier, barcode); err != nil {
		return nil, err
	}

	now := uc.now()
	p.Name = finalName
	p.UnitType = unitType
	p.CategoryID = cat.ID
	p.SupplierID = supplier.ID
	p.Barcode = barcode
	p.CategoryName = cat.Name
	p.SupplierName = supplier.DisplayName()
	p.UpdatedAt = now

	ctx = inventory.WithReference(ctx, inventory.RefProduct, p.ID)
	err = uc.ledger.Exclusive(ctx, []string{p.ID}, func(ctx context.Context) error {
		if unitType == model.UnitDiscrete {
			if err := uc.checkWholeStock(ctx, p.ID); err != nil {
				return err
			}
		}
		if err := uc.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if err := uc.applyRenames(ctx, renames, now); err != nil {
			return err
		}
		if !input.Units.IsPositive() {
			return nil
		}
		_, err := uc.ledger.MergeOrCreateBatch(ctx, &invdto.MergeBatchInput{
			ProductID:    p.ID,
			Units:        input.Units,
			BuyingPrice:  input.BuyingPrice,
			SellingPrice: input.SellingPrice,
			ExpireDate:   derefTime(input.ExpireDate),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product updated", zap.String("product_id", p.ID))
	uc.afterWrite(append(renames, *p)...)

	return uc.GetProduct(ctx, p.ID)
}

// RestockProduct adds units to a named batch, whose prices must match the
// request, or merges them into the product's stock like a delivery.
func (uc *productUseCase) RestockProduct(ctx context.Context, input *dto.RestockProductInput) (*model.Product, error) {
	p, err := uc.find(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if err := validation.OrderUnits(p.UnitType, input.Units); err != nil {
		return nil, err
	}

	ctx = inventory.WithReference(ctx, inventory.RefRestock, p.ID)
	err = uc.ledger.Exclusive(ctx, []string{p.ID}, func(ctx context.Context) error {
		if input.BatchID == "" {
			_, err := uc.ledger.MergeOrCreateBatch(ctx, &invdto.MergeBatchInput{
				ProductID:    p.ID,
				Units:        input.Units,
				BuyingPrice:  input.BuyingPrice,
				SellingPrice: input.SellingPrice,
				ExpireDate:   derefTime(input.ExpireDate),
			})
			return err
		}

		b, err := uc.ledger.GetBatch(ctx, input.BatchID)
		if err != nil {
			return err
		}
		if b.ProductID != p.ID {
			return apperror.Validation("batch_id", "batch %s does not belong to product %s", b.ID, p.ID)
		}
		if !b.BuyingPrice.Equal(input.BuyingPrice) || !b.SellingPrice.Equal(input.SellingPrice) {
			return apperror.Validation("batch_id", "prices do not match batch %s (buying %s, selling %s)",
				b.ID, b.BuyingPrice, b.SellingPrice)
		}
		_, err = uc.ledger.Replenish(ctx, b.ID, input.Units)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product restocked",
		zap.String("product_id", p.ID),
		zap.String("units", input.Units.String()),
		zap.String("batch_id", input.BatchID),
	)
	return uc.GetProduct(ctx, p.ID)
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.withStock(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *productUseCase) GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, apperror.Validation("barcode", "is required")
	}
	p, err := uc.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", barcode)
	}
	if err := uc.withStock(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product no order refers to, along with its
// batches.
func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.find(ctx, id)
	if err != nil {
		return err
	}

	err = uc.ledger.Exclusive(ctx, []string{id}, func(ctx context.Context) error {
		refs, err := uc.repo.CountOrderItems(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return apperror.Conflict("product %s is referenced by %d order items", id, refs)
		}

		batches, err := uc.ledger.ListBatches(ctx, id)
		if err != nil {
			return err
		}
		for _, b := range batches {
			if err := uc.ledger.DeleteBatch(ctx, b.ID); err != nil {
				return err
			}
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("product deleted", zap.String("product_id", id), zap.String("name", p.Name))
	go uc.invalidateProductCache(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), indexName, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *productUseCase) find(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", id)
	}
	return p, nil
}

func (uc *productUseCase) withStock(ctx context.Context, p *model.Product) error {
	batches, err := uc.ledger.ListBatches(ctx, p.ID)
	if err != nil {
		return err
	}
	p.ApplyStock(batches)
	return nil
}

func (uc *productUseCase) owners(ctx context.Context, categoryID, supplierID string) (*model.Category, *model.User, error) {
	cat, err := uc.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, nil, err
	}
	if cat == nil {
		return nil, nil, apperror.NotFound("category", categoryID)
	}
	supplier, err := uc.suppliers.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, nil, err
	}
	return cat, supplier, nil
}

// resolveName applies the supplier suffix rule. When another supplier already
// sells a product with the same name in the category, every such product
// and the one being saved are named "name (Supplier)". Barcoded products are
// told apart by barcode and never take part.
func (uc *productUseCase) resolveName(ctx context.Context, selfID, base, categoryID string, supplier *model.User, barcode *string) (string, []model.Product, error) {
	if barcode != nil {
		return base, nil, nil
	}
	existing, err := uc.repo.FindByBaseName(ctx, categoryID, base)
	if err != nil {
		return "", nil, err
	}

	conflict := false
	for _, e := range existing {
		if e.ID != selfID && e.SupplierID != supplier.ID {
			conflict = true
			break
		}
	}
	if !conflict {
		return base, nil, nil
	}

	var renames []model.Product
	for _, e := range existing {
		if e.ID == selfID {
			continue
		}
		if want := validation.SupplierSuffix(base, e.SupplierName); e.Name != want {
			e.Name = want
			renames = append(renames, e)
		}
	}
	return validation.SupplierSuffix(base, supplier.DisplayName()), renames, nil
}

func (uc *productUseCase) applyRenames(ctx context.Context, renames []model.Product, now time.Time) error {
	for i := range renames {
		renames[i].UpdatedAt = now
		if err := uc.repo.UpdateName(ctx, renames[i].ID, renames[i].Name, now); err != nil {
			return fmt.Errorf("rename product %s: %w", renames[i].ID, err)
		}
		uc.logger.Info("product renamed", zap.String("product_id", renames[i].ID), zap.String("name", renames[i].Name))
	}
	return nil
}

// checkUnique enforces barcode uniqueness for barcoded products and
// (name, supplier) uniqueness for the rest.
func (uc *productUseCase) checkUnique(ctx context.Context, selfID, base, finalName string, supplier *model.User, barcode *string) error {
	if barcode != nil {
		other, err := uc.repo.FindByBarcode(ctx, *barcode)
		if err != nil {
			return err
		}
		if other != nil && other.ID != selfID {
			return apperror.Conflict("barcode %s is already used by %q", *barcode, other.Name)
		}
		return nil
	}

	other, err := uc.repo.FindByNameAndSupplier(ctx, supplier.ID, base, finalName)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return apperror.Conflict("product %q from supplier %q already exists", base, supplier.DisplayName())
	}
	return nil
}

func (uc *productUseCase) checkWholeStock(ctx context.Context, productID string) error {
	batches, err := uc.ledger.ListBatches(ctx, productID)
	if err != nil {
		return err
	}
	for _, b := range batches {
		if !validation.IsIntegral(b.Units) {
			return apperror.Validation("unit_type", "batch %s holds %s units, which is not a whole number", b.ID, b.Units)
		}
	}
	return nil
}

// afterWrite refreshes the list cache and the search index.
func (uc *productUseCase) afterWrite(products ...model.Product) {
	go uc.invalidateProductCache(context.Background())
	for i := range products {
		p := products[i]
		go uc.syncToElastic(context.Background(), &p)
	}
}

func parseUnitType(s string) (model.UnitType, error) {
	if strings.TrimSpace(s) == "" {
		return model.UnitDiscrete, nil
	}
	ut := model.UnitType(strings.ToUpper(strings.TrimSpace(s)))
	if !ut.Valid() {
		return "", apperror.Validation("unit_type", "must be DISCRETE or WEIGHT, got %q", s)
	}
	return ut, nil
}

func optionalBarcode(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

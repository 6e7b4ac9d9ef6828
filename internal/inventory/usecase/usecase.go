package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/auth"
	"github.com/fekuna/omnipos-grocery-service/internal/inventory"
	"github.com/fekuna/omnipos-grocery-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/validation"
	"github.com/fekuna/omnipos-grocery-service/pkg/database"
	"github.com/fekuna/omnipos-grocery-service/pkg/lock"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Config struct {
	// DefaultLifetime is applied to batches created without an expiry.
	DefaultLifetime time.Duration
	// ExpiryWindowDays is used when ExpiringBatches gets a non-positive window.
	ExpiryWindowDays int
}

type ledger struct {
	repo     inventory.Repository
	products inventory.ProductReader
	locker   lock.Locker
	tx       database.Transactor
	cfg      Config
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewInventoryUseCase(
	repo inventory.Repository,
	products inventory.ProductReader,
	locker lock.Locker,
	tx database.Transactor,
	cfg Config,
	log logger.ZapLogger,
) inventory.UseCase {
	if cfg.DefaultLifetime <= 0 {
		cfg.DefaultLifetime = 365 * 24 * time.Hour
	}
	if cfg.ExpiryWindowDays <= 0 {
		cfg.ExpiryWindowDays = 10
	}
	return &ledger{
		repo:     repo,
		products: products,
		locker:   locker,
		tx:       tx,
		cfg:      cfg,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (uc *ledger) Exclusive(ctx context.Context, productIDs []string, fn func(ctx context.Context) error) error {
	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = inventory.LockKey(id)
	}

	ctx, release, err := lock.AcquireAll(ctx, uc.locker, keys)
	if err != nil {
		return fmt.Errorf("lock batches: %w", err)
	}
	defer release()

	return uc.tx.WithinTx(ctx, fn)
}

func (uc *ledger) ListBatches(ctx context.Context, productID string) ([]model.Batch, error) {
	return uc.repo.ListByProduct(ctx, productID)
}

func (uc *ledger) AvailableUnits(ctx context.Context, productID string) (decimal.Decimal, error) {
	batches, err := uc.repo.ListByProduct(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return sumUnits(batches), nil
}

func (uc *ledger) ReferencePrice(ctx context.Context, productID string) (decimal.Decimal, bool, error) {
	b, err := uc.repo.LatestWithStock(ctx, productID)
	if err != nil {
		return decimal.Zero, false, err
	}
	if b == nil {
		return decimal.Zero, false, nil
	}
	return b.SellingPrice, true, nil
}

// Allocate takes units from the product's batches oldest first. Nothing is
// touched when the product cannot cover the full amount.
func (uc *ledger) Allocate(ctx context.Context, productID string, units decimal.Decimal) ([]model.Allocation, error) {
	if !units.IsPositive() {
		return nil, apperror.Validation("units", "must be greater than zero, got %s", units)
	}

	var allocations []model.Allocation
	err := uc.Exclusive(ctx, []string{productID}, func(ctx context.Context) error {
		batches, err := uc.repo.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}

		available := sumUnits(batches)
		if available.LessThan(units) {
			return apperror.InsufficientStock(productID, units, available)
		}

		now := uc.now()
		remaining := units
		for i := range batches {
			if !remaining.IsPositive() {
				break
			}
			b := &batches[i]
			if !b.Units.IsPositive() {
				continue
			}

			take := decimal.Min(remaining, b.Units)
			before := b.Units
			b.Units = b.Units.Sub(take)

			if err := uc.repo.UpdateUnits(ctx, b.ID, b.Units, now); err != nil {
				return fmt.Errorf("allocate from batch %s: %w", b.ID, err)
			}
			if err := uc.logMovement(ctx, b, model.MovementAllocate, take.Neg(), before, now); err != nil {
				return err
			}

			allocations = append(allocations, model.Allocation{
				BatchID:      b.ID,
				Units:        take,
				SellingPrice: b.SellingPrice,
			})
			remaining = remaining.Sub(take)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("units allocated",
		zap.String("product_id", productID),
		zap.String("units", units.String()),
		zap.Int("batches", len(allocations)),
	)
	return allocations, nil
}

// Release returns units to a batch. A batch that no longer exists yields a
// NotFoundError the caller may treat as a warning.
func (uc *ledger) Release(ctx context.Context, batchID string, units decimal.Decimal) (*model.Batch, error) {
	return uc.addUnits(ctx, batchID, units, model.MovementRelease)
}

// Replenish restocks a named batch.
func (uc *ledger) Replenish(ctx context.Context, batchID string, units decimal.Decimal) (*model.Batch, error) {
	return uc.addUnits(ctx, batchID, units, model.MovementRestock)
}

func (uc *ledger) addUnits(ctx context.Context, batchID string, units decimal.Decimal, kind model.MovementType) (*model.Batch, error) {
	if !units.IsPositive() {
		return nil, apperror.Validation("units", "must be greater than zero, got %s", units)
	}

	b, err := uc.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	err = uc.Exclusive(ctx, []string{b.ProductID}, func(ctx context.Context) error {
		// Re-read under the lock: the batch may have moved or gone meanwhile.
		fresh, err := uc.GetBatch(ctx, batchID)
		if err != nil {
			return err
		}
		b = fresh

		now := uc.now()
		before := b.Units
		b.Units = b.Units.Add(units)
		b.UpdatedAt = now

		if err := uc.repo.UpdateUnits(ctx, b.ID, b.Units, now); err != nil {
			return fmt.Errorf("%s batch %s: %w", kind, b.ID, err)
		}
		return uc.logMovement(ctx, b, kind, units, before, now)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (uc *ledger) MergeOrCreateBatch(ctx context.Context, input *dto.MergeBatchInput) (*model.Batch, error) {
	p, err := uc.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", input.ProductID)
	}
	if err := validation.BatchUnits(p.UnitType, input.Units); err != nil {
		return nil, err
	}
	if err := validation.Prices(input.BuyingPrice, input.SellingPrice); err != nil {
		return nil, err
	}

	expire := input.ExpireDate
	if expire.IsZero() {
		expire = uc.now().Add(uc.cfg.DefaultLifetime)
	}
	expire = Day(expire)

	var result *model.Batch
	err = uc.Exclusive(ctx, []string{input.ProductID}, func(ctx context.Context) error {
		batches, err := uc.repo.ListByProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}

		now := uc.now()
		for i := range batches {
			b := &batches[i]
			if !b.SameLot(input.BuyingPrice, input.SellingPrice, expire) {
				continue
			}
			before := b.Units
			b.Units = b.Units.Add(input.Units)
			b.UpdatedAt = now
			if err := uc.repo.UpdateUnits(ctx, b.ID, b.Units, now); err != nil {
				return fmt.Errorf("merge into batch %s: %w", b.ID, err)
			}
			result = b
			return uc.logMovement(ctx, b, model.MovementRestock, input.Units, before, now)
		}

		b := &model.Batch{
			ID:           uuid.New().String(),
			ProductID:    input.ProductID,
			Units:        input.Units,
			BuyingPrice:  input.BuyingPrice,
			SellingPrice: input.SellingPrice,
			CreatedDate:  now,
			ExpireDate:   expire,
			UpdatedAt:    now,
		}
		if err := uc.repo.Create(ctx, b); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}
		result = b
		return uc.logMovement(ctx, b, model.MovementCreate, input.Units, decimal.Zero, now)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *ledger) GetBatch(ctx context.Context, id string) (*model.Batch, error) {
	b, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperror.NotFound("batch", id)
	}
	return b, nil
}

// UpdateBatch is the manual correction path: units, prices and expiry are
// replaced wholesale.
func (uc *ledger) UpdateBatch(ctx context.Context, input *dto.UpdateBatchInput) (*model.Batch, error) {
	b, err := uc.GetBatch(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	p, err := uc.products.FindByID(ctx, b.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", b.ProductID)
	}

	if err := validation.BatchUnits(p.UnitType, input.Units); err != nil {
		return nil, err
	}
	if err := validation.Prices(input.BuyingPrice, input.SellingPrice); err != nil {
		return nil, err
	}
	expire := Day(input.ExpireDate)
	if err := validation.FutureExpiry(expire, uc.now()); err != nil {
		return nil, err
	}

	err = uc.Exclusive(ctx, []string{b.ProductID}, func(ctx context.Context) error {
		fresh, err := uc.GetBatch(ctx, input.ID)
		if err != nil {
			return err
		}
		b = fresh

		now := uc.now()
		before := b.Units
		b.Units = input.Units
		b.BuyingPrice = input.BuyingPrice
		b.SellingPrice = input.SellingPrice
		b.ExpireDate = expire
		b.UpdatedAt = now

		if err := uc.repo.Update(ctx, b); err != nil {
			return fmt.Errorf("update batch %s: %w", b.ID, err)
		}
		if before.Equal(b.Units) {
			return nil
		}
		return uc.logMovement(ctx, b, model.MovementAdjust, b.Units.Sub(before), before, now)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("batch updated", zap.String("batch_id", b.ID), zap.String("product_id", b.ProductID))
	return b, nil
}

// DeleteBatch removes a batch no order item points at.
func (uc *ledger) DeleteBatch(ctx context.Context, id string) error {
	b, err := uc.GetBatch(ctx, id)
	if err != nil {
		return err
	}

	err = uc.Exclusive(ctx, []string{b.ProductID}, func(ctx context.Context) error {
		refs, err := uc.repo.CountReferences(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return apperror.Conflict("batch %s is still referenced by %d order items", id, refs)
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("batch deleted", zap.String("batch_id", id), zap.String("product_id", b.ProductID))
	return nil
}

func (uc *ledger) ExpiringBatches(ctx context.Context, withinDays int) ([]model.Batch, error) {
	if withinDays <= 0 {
		withinDays = uc.cfg.ExpiryWindowDays
	}
	now := uc.now()
	return uc.repo.FindExpiring(ctx, now, now.AddDate(0, 0, withinDays))
}

func (uc *ledger) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *ledger) logMovement(ctx context.Context, b *model.Batch, kind model.MovementType, change, before decimal.Decimal, at time.Time) error {
	refType, refID := inventory.ReferenceFrom(ctx)
	m := &model.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     b.ProductID,
		BatchID:       b.ID,
		MovementType:  kind,
		UnitsChange:   change,
		UnitsBefore:   before,
		UnitsAfter:    before.Add(change),
		ReferenceType: refType,
		ReferenceID:   refID,
		CreatedBy:     auth.Actor(ctx),
		CreatedAt:     at,
	}
	if err := uc.repo.LogMovement(ctx, m); err != nil {
		return fmt.Errorf("log movement: %w", err)
	}
	return nil
}

func sumUnits(batches []model.Batch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.Units)
	}
	return total
}

// Day truncates t to midnight UTC. Expiry dates carry no time of day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/inventory"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/order"
	"github.com/fekuna/omnipos-grocery-service/internal/order/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/user"
	"github.com/fekuna/omnipos-grocery-service/internal/validation"
	"github.com/fekuna/omnipos-grocery-service/pkg/database"
	"github.com/fekuna/omnipos-grocery-service/pkg/lock"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type orderUseCase struct {
	repo     order.Repository
	catalog  order.ProductCatalog
	users    order.UserDirectory
	ledger   inventory.UseCase
	tx       database.Transactor
	locker   lock.Locker
	notifier order.NotificationTrigger
	receipts order.ReceiptSink
	events   order.EventPublisher
	logger   logger.ZapLogger
	now      func() time.Time
}

// NewOrderUseCase wires the order engine. notifier, receipts and events may
// be nil when messaging is disabled.
func NewOrderUseCase(
	repo order.Repository,
	catalog order.ProductCatalog,
	users order.UserDirectory,
	ledger inventory.UseCase,
	tx database.Transactor,
	locker lock.Locker,
	notifier order.NotificationTrigger,
	receipts order.ReceiptSink,
	events order.EventPublisher,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:     repo,
		catalog:  catalog,
		users:    users,
		ledger:   ledger,
		tx:       tx,
		locker:   locker,
		notifier: notifier,
		receipts: receipts,
		events:   events,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// line is a validated order line.
type line struct {
	product *model.Product
	units   decimal.Decimal
}

// CreateEcommerceOrder records a pre-order. Stock is only checked here; it is
// taken when the order is completed.
func (uc *orderUseCase) CreateEcommerceOrder(ctx context.Context, input *dto.CreateEcommerceOrderInput) (*model.Order, error) {
	status := model.StatusPending
	if s := strings.TrimSpace(input.Status); s != "" {
		status = model.OrderStatus(strings.ToUpper(s))
		if !status.Valid() {
			return nil, apperror.Validation("status", "invalid status %q", input.Status)
		}
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apperror.Validation("username", "is required for online orders")
	}
	if _, err := uc.users.FindUserByUsername(ctx, username); err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.Validation("username", "unknown user %q", username)
		}
		return nil, err
	}

	lines, err := uc.validateLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	required, products := requiredUnits(lines)
	for _, id := range products {
		available, err := uc.ledger.AvailableUnits(ctx, id)
		if err != nil {
			return nil, err
		}
		if available.LessThan(required[id]) {
			return nil, apperror.InsufficientStock(id, required[id], available)
		}
	}

	now := uc.now()
	o := &model.Order{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CustomerName:  strings.TrimSpace(input.CustomerName),
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		Status:        status,
		OrderDate:     now,
		OrderType:     model.OrderTypeEcommerce,
		Username:      &username,
	}

	for i, l := range lines {
		price, ok, err := uc.ledger.ReferencePrice(ctx, l.product.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperror.InsufficientStock(l.product.ID, l.units, decimal.Zero)
		}
		o.Items = append(o.Items, model.OrderItem{
			ID:           uuid.New().String(),
			LineNo:       i + 1,
			ProductID:    l.product.ID,
			Units:        l.units,
			SellingPrice: price,
			ProductName:  l.product.Name,
		})
	}
	if err := uc.setTotal(o, input.TotalAmount); err != nil {
		return nil, err
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		return uc.repo.Create(ctx, o)
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	uc.logger.Info("online order created",
		zap.String("order_id", o.ID),
		zap.String("username", username),
		zap.String("status", string(o.Status)),
	)
	uc.publish(ctx, order.EventOrderCreated, o, "", nil)
	return o, nil
}

// CreatePosOrder sells over the counter: every line is allocated from stock
// at once, all lines or none.
func (uc *orderUseCase) CreatePosOrder(ctx context.Context, input *dto.CreatePosOrderInput) (*model.Order, *model.Receipt, error) {
	if len(input.Items) == 0 {
		return nil, nil, apperror.Validation("items", "at least one item is required")
	}

	now := uc.now()
	o := &model.Order{
		BaseModel:         model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CustomerName:      strings.TrimSpace(input.CustomerName),
		PaymentMethod:     strings.TrimSpace(input.PaymentMethod),
		Status:            model.StatusCompleted,
		OrderDate:         now,
		OrderType:         model.OrderTypePOS,
		InventoryAdjusted: true,
	}
	if o.IsCredit() && input.CreditCustomer == nil {
		return nil, nil, apperror.Validation("credit_customer", "details are required for credit purchases")
	}

	productIDs := make([]string, len(input.Items))
	for i, it := range input.Items {
		productIDs[i] = it.ProductID
	}

	var customer *model.User
	if o.IsCredit() {
		// Held across the sale's transaction so two sales to a new phone
		// number register one customer.
		var release func()
		var err error
		ctx, release, err = lock.AcquireAll(ctx, uc.locker, []string{user.CustomerLockKey(input.CreditCustomer.Phone)})
		if err != nil {
			return nil, nil, fmt.Errorf("lock credit customer: %w", err)
		}
		defer release()
	}

	ctx = inventory.WithReference(ctx, inventory.RefOrder, o.ID)
	err := uc.ledger.Exclusive(ctx, productIDs, func(ctx context.Context) error {
		lines, err := uc.validateLines(ctx, input.Items)
		if err != nil {
			return err
		}

		if o.IsCredit() {
			customer, err = uc.users.FindOrCreateCreditCustomer(ctx, input.CreditCustomer)
			if err != nil {
				return err
			}
			o.CreditCustomerID = &customer.ID
			if o.CustomerName == "" {
				o.CustomerName = customer.DisplayName()
			}
		}

		items := make([]model.OrderItem, 0, len(lines))
		for _, l := range lines {
			allocs, err := uc.ledger.Allocate(ctx, l.product.ID, l.units)
			if err != nil {
				return err
			}
			for _, a := range allocs {
				batchID := a.BatchID
				items = append(items, model.OrderItem{
					ID:           uuid.New().String(),
					LineNo:       len(items) + 1,
					ProductID:    l.product.ID,
					Units:        a.Units,
					SellingPrice: a.SellingPrice,
					BatchID:      &batchID,
					ProductName:  l.product.Name,
				})
			}
		}
		o.Items = items

		if err := uc.setTotal(o, input.TotalAmount); err != nil {
			return err
		}
		return uc.repo.Create(ctx, o)
	})
	if err != nil {
		return nil, nil, err
	}

	uc.logger.Info("pos order created",
		zap.String("order_id", o.ID),
		zap.String("payment_method", o.PaymentMethod),
		zap.Int("items", len(o.Items)),
	)

	receipt := GenerateReceipt(o)
	if uc.receipts != nil {
		if err := uc.receipts.Accept(ctx, receipt); err != nil {
			uc.logger.Error("failed to forward receipt", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	if customer != nil && uc.notifier != nil {
		uc.notifier.EnqueueLoanNotification(ctx, o.ID, customer.ID, o.TotalAmount)
	}
	uc.publish(ctx, order.EventOrderCreated, o, "", nil)

	return o, receipt, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.NotFound("order", id)
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	if filters.Status != "" && !model.OrderStatus(strings.ToUpper(filters.Status)).Valid() {
		return nil, 0, apperror.Validation("status", "invalid status %q", filters.Status)
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *orderUseCase) GetReceipt(ctx context.Context, id string) (*model.Receipt, error) {
	o, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return GenerateReceipt(o), nil
}

func (uc *orderUseCase) validateLines(ctx context.Context, items []dto.OrderItemInput) ([]line, error) {
	if len(items) == 0 {
		return nil, apperror.Validation("items", "at least one item is required")
	}
	lines := make([]line, 0, len(items))
	for i, it := range items {
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, apperror.Validation(fmt.Sprintf("items[%d].product_id", i), "is required")
		}
		p, err := uc.catalog.GetProduct(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if err := validation.OrderUnits(p.UnitType, it.Units); err != nil {
			return nil, err
		}
		lines = append(lines, line{product: p, units: it.Units})
	}
	return lines, nil
}

// setTotal keeps a caller-supplied total and fills in the item sum otherwise.
func (uc *orderUseCase) setTotal(o *model.Order, total decimal.Decimal) error {
	if total.IsNegative() {
		return apperror.Validation("total_amount", "must not be negative")
	}
	if total.IsZero() {
		total = itemsTotal(o.Items)
	}
	o.TotalAmount = total
	return nil
}

func (uc *orderUseCase) publish(ctx context.Context, eventType string, o *model.Order, previous model.OrderStatus, warnings []string) {
	if uc.events == nil {
		return
	}
	ev := &order.Event{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload: order.EventPayload{
			OrderID:           o.ID,
			OrderType:         o.OrderType,
			Status:            o.Status,
			PreviousStatus:    previous,
			CustomerName:      o.CustomerName,
			Username:          o.Username,
			TotalAmount:       o.TotalAmount,
			InventoryAdjusted: o.InventoryAdjusted,
			Warnings:          warnings,
		},
		Timestamp: uc.now(),
	}
	if err := uc.events.PublishEvent(ctx, ev); err != nil {
		uc.logger.Error("failed to publish order event",
			zap.String("order_id", o.ID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// requiredUnits sums units per product, keeping first-seen product order.
func requiredUnits(lines []line) (map[string]decimal.Decimal, []string) {
	required := make(map[string]decimal.Decimal, len(lines))
	var ids []string
	for _, l := range lines {
		if _, ok := required[l.product.ID]; !ok {
			ids = append(ids, l.product.ID)
		}
		required[l.product.ID] = required[l.product.ID].Add(l.units)
	}
	return required, ids
}

func itemsTotal(items []model.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Subtotal())
	}
	return total
}

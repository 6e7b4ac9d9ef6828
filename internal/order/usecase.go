package order

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/order/dto"
	userdto "github.com/fekuna/omnipos-grocery-service/internal/user/dto"
	"github.com/shopspring/decimal"
)

type UseCase interface {
	CreateEcommerceOrder(ctx context.Context, input *dto.CreateEcommerceOrderInput) (*model.Order, error)
	// CreatePosOrder allocates stock immediately and returns the printed
	// receipt along with the order.
	CreatePosOrder(ctx context.Context, input *dto.CreatePosOrderInput) (*model.Order, *model.Receipt, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	GetReceipt(ctx context.Context, id string) (*model.Receipt, error)

	// UpdateOrderStatus moves an order through its lifecycle. Warnings list
	// items whose stock could not be returned on cancellation.
	UpdateOrderStatus(ctx context.Context, input *dto.UpdateStatusInput) (order *model.Order, warnings []string, err error)
}

// ProductCatalog resolves the products named on order lines.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
}

type UserDirectory interface {
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	FindOrCreateCreditCustomer(ctx context.Context, input *userdto.CreditCustomerInput) (*model.User, error)
}

// NotificationTrigger schedules the reminder sent to credit customers.
// Failures are the implementation's to log; orders never fail on them.
type NotificationTrigger interface {
	EnqueueLoanNotification(ctx context.Context, orderID, userID string, due decimal.Decimal)
}

// ReceiptSink forwards POS receipts to the till printer.
type ReceiptSink interface {
	Accept(ctx context.Context, receipt *model.Receipt) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, event *Event) error
}

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Event struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   EventPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type EventPayload struct {
	OrderID           string            `json:"order_id"`
	OrderType         model.OrderType   `json:"order_type"`
	Status            model.OrderStatus `json:"status"`
	PreviousStatus    model.OrderStatus `json:"previous_status,omitempty"`
	CustomerName      string            `json:"customer_name"`
	Username          *string           `json:"username,omitempty"`
	TotalAmount       decimal.Decimal   `json:"total_amount"`
	InventoryAdjusted bool              `json:"inventory_adjusted"`
	Warnings          []string          `json:"warnings,omitempty"`
}

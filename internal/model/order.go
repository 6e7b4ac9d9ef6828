package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type OrderType string

const (
	OrderTypeEcommerce OrderType = "ECOMMERCE"
	OrderTypePOS       OrderType = "POS"
)

// PaymentCredit marks a POS order paid on store credit.
const PaymentCredit = "Credit Purpose"

type Order struct {
	BaseModel
	CustomerName      string          `db:"customer_name" json:"customer_name"`
	PaymentMethod     string          `db:"payment_method" json:"payment_method"`
	TotalAmount       decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status            OrderStatus     `db:"status" json:"status"`
	OrderDate         time.Time       `db:"order_date" json:"order_date"`
	OrderType         OrderType       `db:"order_type" json:"order_type"`
	InventoryAdjusted bool            `db:"inventory_adjusted" json:"inventory_adjusted"`
	Username          *string         `db:"username" json:"username"`
	CreditCustomerID  *string         `db:"credit_customer_id" json:"credit_customer_id"`
	Items             []OrderItem     `db:"-" json:"items"`
}

func (o *Order) IsCredit() bool {
	return o.PaymentMethod == PaymentCredit
}

// ProductIDs returns the distinct products referenced by the order's items.
func (o *Order) ProductIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

type OrderItem struct {
	ID           string          `db:"id" json:"id"`
	OrderID      string          `db:"order_id" json:"order_id"`
	LineNo       int             `db:"line_no" json:"line_no"`
	ProductID    string          `db:"product_id" json:"product_id"`
	Units        decimal.Decimal `db:"units" json:"units"`
	SellingPrice decimal.Decimal `db:"selling_price" json:"selling_price"`
	BatchID      *string         `db:"batch_id" json:"batch_id"`

	ProductName string `db:"product_name" json:"product_name,omitempty"`
}

func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Units.Mul(i.SellingPrice)
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Receipt struct {
	OrderID       string          `json:"order_id"`
	OrderDate     time.Time       `json:"order_date"`
	CustomerName  string          `json:"customer_name"`
	PaymentMethod string          `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Items         []ReceiptItem   `json:"items"`
	ItemsTotal    decimal.Decimal `json:"items_total"`
}

type ReceiptItem struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Units        decimal.Decimal `json:"units"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

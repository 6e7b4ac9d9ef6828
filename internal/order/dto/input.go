package dto

import (
	userdto "github.com/fekuna/omnipos-grocery-service/internal/user/dto"
	"github.com/shopspring/decimal"
)

type OrderItemInput struct {
	ProductID string          `json:"product_id"`
	Units     decimal.Decimal `json:"units"`
}

// CreateEcommerceOrderInput is a pre-order placed online. TotalAmount is
// computed from the reference prices when zero.
type CreateEcommerceOrderInput struct {
	CustomerName  string           `json:"customer_name"`
	PaymentMethod string           `json:"payment_method"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	Status        string           `json:"status"`
	Username      string           `json:"username"`
	Items         []OrderItemInput `json:"items"`
}

type CreatePosOrderInput struct {
	CustomerName   string                       `json:"customer_name"`
	PaymentMethod  string                       `json:"payment_method"`
	TotalAmount    decimal.Decimal              `json:"total_amount"`
	Items          []OrderItemInput             `json:"items"`
	CreditCustomer *userdto.CreditCustomerInput `json:"credit_customer"`
}

type UpdateStatusInput struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type GetOrderInput struct {
	ID string `json:"id"`
}

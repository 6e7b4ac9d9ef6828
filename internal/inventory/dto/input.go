package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MergeBatchInput adds stock to the batch with the same prices and expiry, or
// opens a new batch. A zero ExpireDate takes the default batch lifetime.
type MergeBatchInput struct {
	ProductID    string          `json:"product_id"`
	Units        decimal.Decimal `json:"units"`
	BuyingPrice  decimal.Decimal `json:"buying_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ExpireDate   time.Time       `json:"expire_date"`
}

type UpdateBatchInput struct {
	ID           string          `json:"id"`
	Units        decimal.Decimal `json:"units"`
	BuyingPrice  decimal.Decimal `json:"buying_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ExpireDate   time.Time       `json:"expire_date"`
}

type BatchIDInput struct {
	ID string `json:"id"`
}

type ProductIDInput struct {
	ProductID string `json:"product_id"`
}

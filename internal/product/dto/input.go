package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductInput registers a product together with its first batch.
type CreateProductInput struct {
	Name         string          `json:"name"`
	UnitType     string          `json:"unit_type"`
	CategoryID   string          `json:"category_id"`
	SupplierID   string          `json:"supplier_id"`
	Barcode      string          `json:"barcode"`
	Units        decimal.Decimal `json:"units"`
	BuyingPrice  decimal.Decimal `json:"buying_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ExpireDate   *time.Time      `json:"expire_date"`
}

// UpdateProductInput replaces the product's identity fields. Positive Units
// are added as stock the same way a delivery is.
type UpdateProductInput struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	UnitType     string          `json:"unit_type"`
	CategoryID   string          `json:"category_id"`
	SupplierID   string          `json:"supplier_id"`
	Barcode      string          `json:"barcode"`
	Units        decimal.Decimal `json:"units"`
	BuyingPrice  decimal.Decimal `json:"buying_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ExpireDate   *time.Time      `json:"expire_date"`
}

type RestockProductInput struct {
	ProductID    string          `json:"product_id"`
	Units        decimal.Decimal `json:"units"`
	BuyingPrice  decimal.Decimal `json:"buying_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	BatchID      string          `json:"batch_id"`
	ExpireDate   *time.Time      `json:"expire_date"`
}

type GetProductInput struct {
	ID string `json:"id"`
}

type GetByBarcodeInput struct {
	Barcode string `json:"barcode"`
}

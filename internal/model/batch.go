package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch is a priced, dated lot of stock for one product.
type Batch struct {
	ID           string          `db:"id" json:"id"`
	ProductID    string          `db:"product_id" json:"product_id"`
	Units        decimal.Decimal `db:"units" json:"units"`
	BuyingPrice  decimal.Decimal `db:"buying_price" json:"buying_price"`
	SellingPrice decimal.Decimal `db:"selling_price" json:"selling_price"`
	CreatedDate  time.Time       `db:"created_date" json:"created_date"`
	ExpireDate   time.Time       `db:"expire_date" json:"expire_date"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`

	ProductName string `db:"product_name" json:"product_name,omitempty"`
}

// SameLot reports whether b carries exactly the given prices and expiry.
func (b *Batch) SameLot(buyingPrice, sellingPrice decimal.Decimal, expireDate time.Time) bool {
	return b.BuyingPrice.Equal(buyingPrice) &&
		b.SellingPrice.Equal(sellingPrice) &&
		b.ExpireDate.Equal(expireDate)
}

// Allocation is one slice of an allocate call taken from a single batch.
type Allocation struct {
	BatchID      string          `json:"batch_id"`
	Units        decimal.Decimal `json:"units"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

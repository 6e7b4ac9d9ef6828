package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type UnitType string

const (
	UnitDiscrete UnitType = "DISCRETE"
	UnitWeight   UnitType = "WEIGHT"
)

func (u UnitType) Valid() bool {
	return u == UnitDiscrete || u == UnitWeight
}

type Product struct {
	BaseModel
	Name       string   `db:"name" json:"name"`
	UnitType   UnitType `db:"unit_type" json:"unit_type"`
	CategoryID string   `db:"category_id" json:"category_id"`
	SupplierID string   `db:"supplier_id" json:"supplier_id"`
	Barcode    *string  `db:"barcode" json:"barcode"`

	// Read-side projections, never written back.
	CategoryName string              `db:"category_name" json:"category_name"`
	SupplierName string              `db:"supplier_name" json:"supplier_name"`
	TotalUnits   decimal.Decimal     `db:"-" json:"total_units"`
	BuyingPrice  decimal.NullDecimal `db:"-" json:"buying_price"`
	SellingPrice decimal.NullDecimal `db:"-" json:"selling_price"`
	ExpireDate   *time.Time          `db:"-" json:"expire_date,omitempty"`
	Batches      []Batch             `db:"-" json:"batches,omitempty"`
}

func (p *Product) HasBarcode() bool {
	return p.Barcode != nil && *p.Barcode != ""
}

// ApplyStock fills the stock projections from the product's FIFO-ordered
// batches. Prices and expiry come from the oldest batch that still has units.
func (p *Product) ApplyStock(batches []Batch) {
	p.Batches = batches
	p.TotalUnits = decimal.Zero
	p.BuyingPrice = decimal.NullDecimal{}
	p.SellingPrice = decimal.NullDecimal{}
	p.ExpireDate = nil

	for i := range batches {
		b := &batches[i]
		p.TotalUnits = p.TotalUnits.Add(b.Units)
		if p.SellingPrice.Valid || !b.Units.IsPositive() {
			continue
		}
		p.BuyingPrice = decimal.NewNullDecimal(b.BuyingPrice)
		p.SellingPrice = decimal.NewNullDecimal(b.SellingPrice)
		expire := b.ExpireDate
		p.ExpireDate = &expire
	}
}

package usecase

import (
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/shopspring/decimal"
)

const unknownProduct = "Unknown Product"

// GenerateReceipt projects an order onto a printable receipt. Product names
// must already be on the items. Consecutive items of one product at one
// price, as produced by a line spanning several batches, print as one line.
func GenerateReceipt(o *model.Order) *model.Receipt {
	r := &model.Receipt{
		OrderID:       o.ID,
		OrderDate:     o.OrderDate,
		CustomerName:  o.CustomerName,
		PaymentMethod: o.PaymentMethod,
		TotalAmount:   o.TotalAmount,
		Items:         []model.ReceiptItem{},
		ItemsTotal:    decimal.Zero,
	}

	for i := range o.Items {
		it := &o.Items[i]
		subtotal := it.Subtotal()
		r.ItemsTotal = r.ItemsTotal.Add(subtotal)

		if n := len(r.Items); n > 0 {
			last := &r.Items[n-1]
			if last.ProductID == it.ProductID && last.SellingPrice.Equal(it.SellingPrice) {
				last.Units = last.Units.Add(it.Units)
				last.Subtotal = last.Subtotal.Add(subtotal)
				continue
			}
		}

		name := it.ProductName
		if name == "" {
			name = unknownProduct
		}
		r.Items = append(r.Items, model.ReceiptItem{
			ProductID:    it.ProductID,
			ProductName:  name,
			Units:        it.Units,
			SellingPrice: it.SellingPrice,
			Subtotal:     subtotal,
		})
	}
	return r
}

// Package validation holds the unit, price, expiry and naming rules shared by
// the catalog, the batch ledger and the order engine.
package validation

import (
	"strings"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/shopspring/decimal"
)

func IsIntegral(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}

// OrderUnits checks a requested line quantity: positive, and whole for
// DISCRETE products.
func OrderUnits(unitType model.UnitType, units decimal.Decimal) error {
	if !units.IsPositive() {
		return apperror.Validation("units", "must be greater than zero, got %s", units)
	}
	return unitShape(unitType, units)
}

// BatchUnits checks a batch quantity, where zero is allowed.
func BatchUnits(unitType model.UnitType, units decimal.Decimal) error {
	if units.IsNegative() {
		return apperror.Validation("units", "must not be negative, got %s", units)
	}
	return unitShape(unitType, units)
}

func unitShape(unitType model.UnitType, units decimal.Decimal) error {
	switch unitType {
	case model.UnitDiscrete:
		if !IsIntegral(units) {
			return apperror.Validation("units", "product is sold in whole units, got %s", units)
		}
	case model.UnitWeight:
	default:
		return apperror.Validation("unit_type", "unknown unit type %q", unitType)
	}
	return nil
}

func Prices(buyingPrice, sellingPrice decimal.Decimal) error {
	if !buyingPrice.IsPositive() {
		return apperror.Validation("buying_price", "must be greater than zero")
	}
	if !sellingPrice.IsPositive() {
		return apperror.Validation("selling_price", "must be greater than zero")
	}
	if buyingPrice.GreaterThan(sellingPrice) {
		return apperror.Validation("buying_price", "buying price %s exceeds selling price %s", buyingPrice, sellingPrice)
	}
	return nil
}

func FutureExpiry(expireDate, now time.Time) error {
	if expireDate.IsZero() {
		return apperror.Validation("expire_date", "is required")
	}
	if !expireDate.After(now) {
		return apperror.Validation("expire_date", "must be in the future")
	}
	return nil
}

// SupplierSuffix appends " (supplierName)" to name unless it already ends
// with it.
func SupplierSuffix(name, supplierName string) string {
	if supplierName == "" {
		return name
	}
	suffix := " (" + supplierName + ")"
	if strings.HasSuffix(name, suffix) {
		return name
	}
	return name + suffix
}

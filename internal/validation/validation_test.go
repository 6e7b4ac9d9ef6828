package validation

import (
	"testing"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderUnits(t *testing.T) {
	tests := []struct {
		name     string
		unitType model.UnitType
		units    string
		wantErr  bool
	}{
		{"discrete whole", model.UnitDiscrete, "3", false},
		{"discrete fractional", model.UnitDiscrete, "2.5", true},
		{"weight fractional", model.UnitWeight, "2.5", false},
		{"zero", model.UnitWeight, "0", true},
		{"negative", model.UnitDiscrete, "-1", true},
		{"unknown type", model.UnitType("BOX"), "1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := OrderUnits(tt.unitType, decimal.RequireFromString(tt.units))
			if tt.wantErr {
				assert.True(t, apperror.IsValidation(err), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBatchUnitsAllowsZero(t *testing.T) {
	assert.NoError(t, BatchUnits(model.UnitDiscrete, decimal.Zero))
	assert.Error(t, BatchUnits(model.UnitDiscrete, decimal.NewFromInt(-2)))
	assert.Error(t, BatchUnits(model.UnitDiscrete, decimal.RequireFromString("0.5")))
}

func TestPrices(t *testing.T) {
	assert.NoError(t, Prices(decimal.NewFromInt(2), decimal.NewFromInt(2)))
	assert.NoError(t, Prices(decimal.RequireFromString("1.5"), decimal.NewFromInt(3)))
	assert.Error(t, Prices(decimal.NewFromInt(4), decimal.NewFromInt(3)))
	assert.Error(t, Prices(decimal.Zero, decimal.NewFromInt(3)))
	assert.Error(t, Prices(decimal.NewFromInt(1), decimal.Zero))
}

func TestFutureExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.NoError(t, FutureExpiry(now.Add(time.Hour), now))
	assert.Error(t, FutureExpiry(now, now))
	assert.Error(t, FutureExpiry(now.Add(-time.Hour), now))
	assert.Error(t, FutureExpiry(time.Time{}, now))
}

func TestSupplierSuffix(t *testing.T) {
	assert.Equal(t, "Milk (Dairy Co)", SupplierSuffix("Milk", "Dairy Co"))
	assert.Equal(t, "Milk (Dairy Co)", SupplierSuffix("Milk (Dairy Co)", "Dairy Co"))
	assert.Equal(t, "Milk", SupplierSuffix("Milk", ""))
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementAllocate MovementType = "allocate"
	MovementRelease  MovementType = "release"
	MovementRestock  MovementType = "restock"
	MovementCreate   MovementType = "create"
	MovementAdjust   MovementType = "adjust"
)

// StockMovement is the audit trail of every change to a batch's units.
type StockMovement struct {
	ID            string          `db:"id" json:"id"`
	ProductID     string          `db:"product_id" json:"product_id"`
	BatchID       string          `db:"batch_id" json:"batch_id"`
	MovementType  MovementType    `db:"movement_type" json:"movement_type"`
	UnitsChange   decimal.Decimal `db:"units_change" json:"units_change"`
	UnitsBefore   decimal.Decimal `db:"units_before" json:"units_before"`
	UnitsAfter    decimal.Decimal `db:"units_after" json:"units_after"`
	ReferenceType *string         `db:"reference_type" json:"reference_type"`
	ReferenceID   *string         `db:"reference_id" json:"reference_id"`
	Notes         string          `db:"notes" json:"notes"`
	CreatedBy     *string         `db:"created_by" json:"created_by"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

package model

import "database/sql/driver"

// Enum columns are written as plain text whatever the driver.

func (u UnitType) Value() (driver.Value, error)     { return string(u), nil }
func (s OrderStatus) Value() (driver.Value, error)  { return string(s), nil }
func (t OrderType) Value() (driver.Value, error)    { return string(t), nil }
func (r Role) Value() (driver.Value, error)         { return string(r), nil }
func (c CustomerType) Value() (driver.Value, error) { return string(c), nil }
func (m MovementType) Value() (driver.Value, error) { return string(m), nil }

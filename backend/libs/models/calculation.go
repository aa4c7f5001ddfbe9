package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// CalculationsTable is the backend table holding calculation rows.
const CalculationsTable = "calculations"

// Decimal is a numeric column value. NaN and infinities travel as JSON null,
// and null decodes back to NaN.
type Decimal float64

// Float returns the value as float64.
func (d Decimal) Float() float64 { return float64(d) }

// Valid reports whether the value is a finite number.
func (d Decimal) Valid() bool {
	f := float64(d)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MarshalJSON implements json.Marshaler.
func (d Decimal) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(d), 'f', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Decimal(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*d = Decimal(f)
	return nil
}

// NewCalculation is the row written on save; id and created_at are assigned
// by the backend.
type NewCalculation struct {
	UserID     string  `json:"user_id"`
	Hours      Decimal `json:"hours"`
	Power      Decimal `json:"power"`
	CostPerKWh Decimal `json:"cost_per_kwh"`
	TotalCost  Decimal `json:"total_cost"`
}

// Calculation is a stored row. Rows are immutable once inserted.
type Calculation struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	Hours      Decimal   `json:"hours"`
	Power      Decimal   `json:"power"`
	CostPerKWh Decimal   `json:"cost_per_kwh"`
	TotalCost  Decimal   `json:"total_cost"`
	CreatedAt  time.Time `json:"created_at"`
}

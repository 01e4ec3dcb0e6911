package models

import "time"

// MeasurementUnit is a unit of measure used by product dimensions.
type MeasurementUnit struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Symbol    string    `db:"symbol" json:"symbol"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MeasurementUnitFilter captures supported filters for listing units.
type MeasurementUnitFilter struct {
	ListFilter
}

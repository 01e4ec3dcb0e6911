package models

import "time"

// PackagingKind selects one of the three packaging taxonomy tables. The
// tables share a schema, so a single repository serves all three.
type PackagingKind string

const (
	PackagingMaterial  PackagingKind = "packaging_materials"
	PackagingTreatment PackagingKind = "packaging_treatments"
	PackagingType      PackagingKind = "packaging_types"
)

// Valid reports whether the kind maps to a known table.
func (k PackagingKind) Valid() bool {
	switch k {
	case PackagingMaterial, PackagingTreatment, PackagingType:
		return true
	}
	return false
}

// Resource returns the URL path segment for the kind.
func (k PackagingKind) Resource() string {
	switch k {
	case PackagingMaterial:
		return "packaging-materials"
	case PackagingTreatment:
		return "packaging-treatments"
	case PackagingType:
		return "packaging-types"
	}
	return ""
}

// PackagingItem is one entry of a packaging taxonomy table.
type PackagingItem struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PackagingFilter captures supported filters for packaging taxonomy lists.
type PackagingFilter struct {
	ListFilter
}

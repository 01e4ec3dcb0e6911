package models

import "time"

// Category is a top-level product taxonomy entry.
type Category struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Image     string    `db:"image" json:"image"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CategoryFilter captures supported filters for listing categories.
type CategoryFilter struct {
	ListFilter
}

// SubCategory belongs to exactly one Category.
type SubCategory struct {
	ID           string    `db:"id" json:"id"`
	CategoryID   string    `db:"category_id" json:"category_id"`
	CategoryName string    `db:"category_name" json:"category_name,omitempty"`
	Name         string    `db:"name" json:"name"`
	Image        string    `db:"image" json:"image"`
	Status       Status    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SubCategoryFilter captures supported filters for listing sub-categories.
type SubCategoryFilter struct {
	ListFilter
	CategoryID string
}

package models

import "time"

// Banner is a promotional image slot shown in the mobile app, manually
// ordered through its sequence field.
type Banner struct {
	ID        string     `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Image     string     `db:"image" json:"image"`
	LinkURL   string     `db:"link_url" json:"link_url"`
	Sequence  int        `db:"sequence" json:"sequence"`
	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
	Status    Status     `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// BannerFilter captures supported filters for listing banners.
type BannerFilter struct {
	ListFilter
}

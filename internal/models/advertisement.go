package models

import "time"

// Advertisement is a paid ad placement, sequence-ordered like banners.
type Advertisement struct {
	ID         string     `db:"id" json:"id"`
	Title      string     `db:"title" json:"title"`
	Image      string     `db:"image" json:"image"`
	LinkURL    string     `db:"link_url" json:"link_url"`
	Advertiser string     `db:"advertiser" json:"advertiser"`
	Sequence   int        `db:"sequence" json:"sequence"`
	StartDate  *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate    *time.Time `db:"end_date" json:"end_date,omitempty"`
	Status     Status     `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// AdvertisementFilter captures supported filters for listing advertisements.
type AdvertisementFilter struct {
	ListFilter
}

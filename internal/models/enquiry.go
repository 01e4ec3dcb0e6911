package models

import "time"

// Enquiry is a customer product enquiry, read-only in the back office.
type Enquiry struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	UserName    string    `db:"user_name" json:"user_name,omitempty"`
	UserEmail   string    `db:"user_email" json:"user_email,omitempty"`
	Product     string    `db:"product" json:"product"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// EnquiryFilter captures supported filters for the enquiry list.
type EnquiryFilter struct {
	ListFilter
}

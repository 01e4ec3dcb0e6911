package models

import "time"

// AppUser is a mobile-app customer account. The back office lists, searches
// and (de)activates customers but never creates them.
type AppUser struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phone"`
	Credits      int        `db:"credits" json:"credits"`
	ReferralCode string     `db:"referral_code" json:"referral_code"`
	ReferredBy   *string    `db:"referred_by" json:"referred_by,omitempty"`
	Status       Status     `db:"status" json:"status"`
	LastSeen     *time.Time `db:"last_seen" json:"last_seen,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// AppUserFilter captures supported filters for the customer list.
type AppUserFilter struct {
	ListFilter
}

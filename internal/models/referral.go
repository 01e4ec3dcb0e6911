package models

import "time"

// Referral links a referring customer to a referred signup, read-only in the
// back office.
type Referral struct {
	ID            string    `db:"id" json:"id"`
	Code          string    `db:"code" json:"code"`
	ReferrerID    string    `db:"referrer_id" json:"referrer_id"`
	ReferrerName  string    `db:"referrer_name" json:"referrer_name,omitempty"`
	ReferredID    string    `db:"referred_id" json:"referred_id"`
	ReferredName  string    `db:"referred_name" json:"referred_name,omitempty"`
	CreditsEarned int       `db:"credits_earned" json:"credits_earned"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ReferralFilter captures supported filters for the referral list.
type ReferralFilter struct {
	ListFilter
	Code string
}

package models

import "time"

// SubscriptionPlan is a purchasable plan shown in the app, sequence-ordered
// on the master screen.
type SubscriptionPlan struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	DurationDays int       `db:"duration_days" json:"duration_days"`
	Price        float64   `db:"price" json:"price"`
	Credits      int       `db:"credits" json:"credits"`
	Sequence     int       `db:"sequence" json:"sequence"`
	Status       Status    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SubscriptionPlanFilter captures supported filters for listing plans.
type SubscriptionPlanFilter struct {
	ListFilter
}

// CreditPrice is the master price of a single app credit for a currency.
type CreditPrice struct {
	ID        string    `db:"id" json:"id"`
	Currency  string    `db:"currency" json:"currency"`
	Price     float64   `db:"price" json:"price"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreditPriceFilter captures supported filters for listing credit prices.
type CreditPriceFilter struct {
	ListFilter
}

// UserSubscription is a customer's purchased plan, read-only in the back
// office.
type UserSubscription struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	UserName  string    `db:"user_name" json:"user_name,omitempty"`
	PlanID    string    `db:"plan_id" json:"plan_id"`
	PlanName  string    `db:"plan_name" json:"plan_name,omitempty"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Amount    float64   `db:"amount" json:"amount"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UserSubscriptionFilter captures supported filters for the purchase list.
type UserSubscriptionFilter struct {
	ListFilter
	UserID string
	PlanID string
}

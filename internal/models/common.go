package models

import "time"

// Status is the two-state lifecycle every administrable record carries.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is one of the two accepted values.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// ListFilter carries the filtering fields shared by every list endpoint.
// Entity filters embed it and add their own foreign-key or enum fields.
type ListFilter struct {
	Search    string
	Status    Status
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

package models

import (
	"encoding/json"
	"time"
)

// AuditLog records a mutating admin action for the audit trail.
type AuditLog struct {
	ID         string          `db:"id" json:"id"`
	AdminID    *string         `db:"admin_id" json:"admin_id,omitempty"`
	Action     string          `db:"action" json:"action"`
	Resource   string          `db:"resource" json:"resource"`
	ResourceID *string         `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  json.RawMessage `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string          `db:"ip_address" json:"ip_address"`
	UserAgent  string          `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

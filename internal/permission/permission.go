// Package permission implements the capability gate consulted before every
// create/update/delete/export affordance in the back office. Lookups are
// fail-closed: missing sessions, missing sections and unknown capabilities
// all answer false so callers never need a nil check.
package permission

import (
	"bytes"
	"database/sql/driver"
	"fmt"
)

// Capability names an action that can be granted per section.
type Capability string

const (
	CanCreate Capability = "can_create"
	CanUpdate Capability = "can_update"
	CanDelete Capability = "can_delete"
	CanExport Capability = "can_export"
)

// Known administrative sections. Section names are matched exactly.
const (
	SectionMaster   = "Master"
	SectionProduct  = "Product Section"
	SectionCustomer = "Customer Section"
	SectionStaff    = "Staff"
	SectionReports  = "Reports"
)

// Flag is a boolean carried as 0/1 in the transport and database
// representations.
type Flag bool

// Bool returns the flag as a plain bool.
func (f Flag) Bool() bool { return bool(f) }

// MarshalJSON encodes the flag as 0 or 1.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON accepts 0/1 as well as JSON booleans.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "1", "true":
		*f = true
	case "0", "false", "null":
		*f = false
	default:
		return fmt.Errorf("invalid permission flag %q", data)
	}
	return nil
}

// Scan implements sql.Scanner for integer and boolean columns.
func (f *Flag) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*f = false
	case bool:
		*f = Flag(v)
	case int64:
		*f = v != 0
	case []byte:
		return f.UnmarshalJSON(v)
	default:
		return fmt.Errorf("unsupported permission flag type %T", src)
	}
	return nil
}

// Value implements driver.Valuer, storing the flag as an integer.
func (f Flag) Value() (driver.Value, error) {
	if f {
		return int64(1), nil
	}
	return int64(0), nil
}

// Record holds the capabilities granted for one section.
type Record struct {
	PageName  string `db:"page_name" json:"page_name"`
	CanCreate Flag   `db:"can_create" json:"can_create"`
	CanUpdate Flag   `db:"can_update" json:"can_update"`
	CanDelete Flag   `db:"can_delete" json:"can_delete"`
	CanExport Flag   `db:"can_export" json:"can_export"`
}

// Set is the full permission mapping owned by an authenticated session,
// loaded once at login.
type Set []Record

// Can reports whether the set grants the capability on the named section.
// A nil or empty set, an unmatched section, or an unknown capability all
// return false.
func (s Set) Can(section string, capability Capability) bool {
	for _, record := range s {
		if record.PageName != section {
			continue
		}
		switch capability {
		case CanCreate:
			return record.CanCreate.Bool()
		case CanUpdate:
			return record.CanUpdate.Bool()
		case CanDelete:
			return record.CanDelete.Bool()
		case CanExport:
			return record.CanExport.Bool()
		}
		return false
	}
	return false
}

// Sections returns the catalog of known section names.
func Sections() []string {
	return []string{SectionMaster, SectionProduct, SectionCustomer, SectionStaff, SectionReports}
}

// FullAccess returns a set granting every capability on every known section,
// the implicit grant carried by superadmin sessions.
func FullAccess() Set {
	sections := Sections()
	set := make(Set, 0, len(sections))
	for _, section := range sections {
		set = append(set, Record{
			PageName:  section,
			CanCreate: true,
			CanUpdate: true,
			CanDelete: true,
			CanExport: true,
		})
	}
	return set
}

// KnownSection reports whether name is part of the section catalog.
func KnownSection(name string) bool {
	for _, section := range Sections() {
		if section == name {
			return true
		}
	}
	return false
}

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/packarma/admin-api/internal/permission"
)

// AdminRole distinguishes the owner account from regular staff.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "SUPERADMIN"
	RoleStaff      AdminRole = "STAFF"
)

// Valid reports whether r is a known role.
func (r AdminRole) Valid() bool {
	return r == RoleSuperAdmin || r == RoleStaff
}

// Admin represents a back-office staff account stored in the admins table.
type Admin struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         AdminRole  `db:"role" json:"role"`
	Status       Status     `db:"status" json:"status"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// AdminFilter captures filtering criteria for listing staff accounts.
type AdminFilter struct {
	ListFilter
	Role *AdminRole
}

// AdminPermission is one row of a staff member's permission set.
type AdminPermission struct {
	ID        string          `db:"id" json:"id"`
	AdminID   string          `db:"admin_id" json:"admin_id"`
	PageName  string          `db:"page_name" json:"page_name"`
	CanCreate permission.Flag `db:"can_create" json:"can_create"`
	CanUpdate permission.Flag `db:"can_update" json:"can_update"`
	CanDelete permission.Flag `db:"can_delete" json:"can_delete"`
	CanExport permission.Flag `db:"can_export" json:"can_export"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// PermissionSet converts stored rows into the gate's lookup form.
func PermissionSet(rows []AdminPermission) permission.Set {
	set := make(permission.Set, 0, len(rows))
	for _, row := range rows {
		set = append(set, permission.Record{
			PageName:  row.PageName,
			CanCreate: row.CanCreate,
			CanUpdate: row.CanUpdate,
			CanDelete: row.CanDelete,
			CanExport: row.CanExport,
		})
	}
	return set
}

// JWTClaims is the token payload attached to authenticated requests.
type JWTClaims struct {
	AdminID string    `json:"admin_id"`
	Email   string    `json:"email"`
	Role    AdminRole `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest captures the login payload.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse carries issued tokens and the session's permission set.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresAt    time.Time      `json:"expires_at"`
	Admin        Admin          `json:"admin"`
	Permissions  permission.Set `json:"permissions"`
}

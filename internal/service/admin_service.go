package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/permission"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/pagination"
)

type adminRepository interface {
	List(ctx context.Context, filter models.AdminFilter) ([]models.Admin, int, error)
	FindByID(ctx context.Context, id string) (*models.Admin, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, admin *models.Admin) error
	Update(ctx context.Context, admin *models.Admin) error
	UpdateStatus(ctx context.Context, id string, status models.Status) error
	Delete(ctx context.Context, id string) error
	Permissions(ctx context.Context, adminID string) ([]models.AdminPermission, error)
	ReplacePermissions(ctx context.Context, adminID string, rows []models.AdminPermission) error
	RevokeAdminRefreshTokens(ctx context.Context, adminID string) error
}

// AdminService manages staff accounts and their permission sets.
type AdminService struct {
	repo      adminRepository
	cache     permissionCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(repo adminRepository, cache permissionCache, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// CreateAdminRequest describes the staff creation payload.
type CreateAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

// UpdateAdminRequest describes the staff update payload.
type UpdateAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
}

// PermissionGrant is one row of the permission replace payload.
type PermissionGrant struct {
	PageName  string          `json:"page_name" validate:"required"`
	CanCreate permission.Flag `json:"can_create"`
	CanUpdate permission.Flag `json:"can_update"`
	CanDelete permission.Flag `json:"can_delete"`
	CanExport permission.Flag `json:"can_export"`
}

// List returns staff accounts with pagination metadata.
func (s *AdminService) List(ctx context.Context, filter models.AdminFilter) ([]models.Admin, pagination.Info, error) {
	admins, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Info{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admins")
	}
	return admins, pagination.NewInfo(filter.Page, filter.Limit, total), nil
}

// Get returns one staff account.
func (s *AdminService) Get(ctx context.Context, id string) (*models.Admin, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get admin")
	}
	return admin, nil
}

// Create registers a new staff account. New accounts always start as STAFF;
// the superadmin is seeded, never created through the API.
func (s *AdminService) Create(ctx context.Context, req CreateAdminRequest) (*models.Admin, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	taken, err := s.repo.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admin email")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	admin := &models.Admin{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         models.RoleStaff,
		Status:       models.StatusActive,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}
	return admin, nil
}

// Update modifies a staff account's profile.
func (s *AdminService) Update(ctx context.Context, id string, req UpdateAdminRequest) (*models.Admin, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	admin, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByEmail(ctx, req.Email, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admin email")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	}

	admin.Email = req.Email
	admin.FullName = req.FullName
	if err := s.repo.Update(ctx, admin); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update admin")
	}
	return admin, nil
}

// ToggleStatus flips a staff account's status. Deactivation also revokes all
// live sessions so the account loses access immediately.
func (s *AdminService) ToggleStatus(ctx context.Context, id string) (*models.Admin, error) {
	admin, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin.Role == models.RoleSuperAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "superadmin account cannot be deactivated")
	}

	next := admin.Status.Toggled()
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update admin status")
	}
	admin.Status = next

	if next == models.StatusInactive {
		if err := s.repo.RevokeAdminRefreshTokens(ctx, id); err != nil {
			s.logger.Warn("failed to revoke sessions of deactivated admin", zap.Error(err))
		}
		s.invalidatePermissionCache(ctx, id)
	}
	return admin, nil
}

// Delete removes a staff account. The superadmin and the calling account
// itself are protected.
func (s *AdminService) Delete(ctx context.Context, id, callerID string) error {
	if id == callerID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete your own account")
	}

	admin, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if admin.Role == models.RoleSuperAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "superadmin account cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete admin")
	}
	s.invalidatePermissionCache(ctx, id)
	return nil
}

// Permissions returns the stored permission rows for a staff account.
func (s *AdminService) Permissions(ctx context.Context, id string) ([]models.AdminPermission, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.Permissions(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load permissions")
	}
	return rows, nil
}

// ReplacePermissions overwrites a staff account's permission set and drops
// its cached copy so the next request sees the new grants.
func (s *AdminService) ReplacePermissions(ctx context.Context, id string, grants []PermissionGrant) ([]models.AdminPermission, error) {
	admin, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin.Role == models.RoleSuperAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "superadmin permissions cannot be edited")
	}

	seen := make(map[string]bool, len(grants))
	rows := make([]models.AdminPermission, 0, len(grants))
	for _, grant := range grants {
		if err := s.validator.Struct(grant); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid permission grant")
		}
		if !permission.KnownSection(grant.PageName) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown section "+grant.PageName)
		}
		if seen[grant.PageName] {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate section "+grant.PageName)
		}
		seen[grant.PageName] = true
		rows = append(rows, models.AdminPermission{
			AdminID:   id,
			PageName:  grant.PageName,
			CanCreate: grant.CanCreate,
			CanUpdate: grant.CanUpdate,
			CanDelete: grant.CanDelete,
			CanExport: grant.CanExport,
		})
	}

	if err := s.repo.ReplacePermissions(ctx, id, rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace permissions")
	}
	s.invalidatePermissionCache(ctx, id)
	return rows, nil
}

func (s *AdminService) invalidatePermissionCache(ctx context.Context, adminID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, permissionCacheKey(adminID)); err != nil {
		s.logger.Warn("failed to invalidate permission cache", zap.Error(err))
	}
}

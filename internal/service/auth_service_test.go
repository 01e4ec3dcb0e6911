package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/permission"
	appErrors "github.com/packarma/admin-api/pkg/errors"
)

type authRepoStub struct {
	admins      map[string]models.Admin
	permissions map[string][]models.AdminPermission
	tokens      map[string]models.RefreshToken
	audits      []models.AuditLog
}

func newAuthRepoStub() *authRepoStub {
	return &authRepoStub{
		admins:      make(map[string]models.Admin),
		permissions: make(map[string][]models.AdminPermission),
		tokens:      make(map[string]models.RefreshToken),
	}
}

func (s *authRepoStub) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	for _, admin := range s.admins {
		if admin.Email == email {
			copied := admin
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	if admin, ok := s.admins[id]; ok {
		copied := admin
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	admin := s.admins[id]
	admin.LastLogin = &ts
	s.admins[id] = admin
	return nil
}

func (s *authRepoStub) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	admin := s.admins[id]
	admin.PasswordHash = passwordHash
	s.admins[id] = admin
	return nil
}

func (s *authRepoStub) Permissions(ctx context.Context, adminID string) ([]models.AdminPermission, error) {
	return s.permissions[adminID], nil
}

func (s *authRepoStub) StoreRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	s.tokens[token.Token] = *token
	return nil
}

func (s *authRepoStub) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := s.tokens[token]; ok && !stored.Revoked {
		copied := stored
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) RevokeRefreshToken(ctx context.Context, id string) error {
	for key, token := range s.tokens {
		if token.ID == id {
			token.Revoked = true
			s.tokens[key] = token
		}
	}
	return nil
}

func (s *authRepoStub) RevokeAdminRefreshTokens(ctx context.Context, adminID string) error {
	for key, token := range s.tokens {
		if token.AdminID == adminID {
			token.Revoked = true
			s.tokens[key] = token
		}
	}
	return nil
}

func (s *authRepoStub) InsertAuditLog(ctx context.Context, entry *models.AuditLog) error {
	s.audits = append(s.audits, *entry)
	return nil
}

type cacheStub struct{}

func (c *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (c *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (c *cacheStub) Delete(ctx context.Context, key string) error {
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "admin-api-test",
	}
}

func seedAdmin(t *testing.T, repo *authRepoStub, role models.AdminRole, status models.Status) models.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := models.Admin{
		ID:           "a1",
		Email:        "admin@packarma.com",
		PasswordHash: string(hash),
		FullName:     "Admin",
		Role:         role,
		Status:       status,
	}
	repo.admins[admin.ID] = admin
	return admin
}

func TestLoginSuccess(t *testing.T) {
	repo := newAuthRepoStub()
	seedAdmin(t, repo, models.RoleStaff, models.StatusActive)
	repo.permissions["a1"] = []models.AdminPermission{
		{AdminID: "a1", PageName: permission.SectionMaster, CanCreate: true},
	}
	svc := NewAuthService(repo, &cacheStub{}, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@packarma.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.True(t, resp.Permissions.Can(permission.SectionMaster, permission.CanCreate))
	assert.False(t, resp.Permissions.Can(permission.SectionMaster, permission.CanDelete))
	assert.Len(t, repo.audits, 1)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newAuthRepoStub()
	seedAdmin(t, repo, models.RoleStaff, models.StatusActive)
	svc := NewAuthService(repo, &cacheStub{}, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@packarma.com", Password: "wrong"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := newAuthRepoStub()
	seedAdmin(t, repo, models.RoleStaff, models.StatusInactive)
	svc := NewAuthService(repo, &cacheStub{}, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@packarma.com", Password: "secret123"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestSuperAdminGetsFullAccess(t *testing.T) {
	repo := newAuthRepoStub()
	seedAdmin(t, repo, models.RoleSuperAdmin, models.StatusActive)
	svc := NewAuthService(repo, &cacheStub{}, nil, nil, testAuthConfig())

	set, err := svc.PermissionsFor(context.Background(), "a1")
	require.NoError(t, err)
	for _, section := range permission.Sections() {
		assert.True(t, set.Can(section, permission.CanDelete), section)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newAuthRepoStub()
	seedAdmin(t, repo, models.RoleStaff, models.StatusActive)
	svc := NewAuthService(repo, &cacheStub{}, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@packarma.com", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// the used token is revoked and cannot be replayed
	_, err = svc.Refresh(context.Background(), login.RefreshToken, "", "")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestParseAccessTokenRoundTrip(t *testing.T) {
	repo := newAuthRepoStub()
	admin := seedAdmin(t, repo, models.RoleStaff, models.StatusActive)
	svc := NewAuthService(repo, &cacheStub{}, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: admin.Email, Password: "secret123"})
	require.NoError(t, err)

	claims, err := svc.ParseAccessToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)
	assert.Equal(t, models.RoleStaff, claims.Role)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newAuthRepoStub(), &cacheStub{}, nil, nil, testAuthConfig())

	_, err := svc.ParseAccessToken("not-a-token")
	require.Error(t, err)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	repo := newAuthRepoStub()
	seedAdmin(t, repo, models.RoleStaff, models.StatusActive)
	svc := NewAuthService(repo, &cacheStub{}, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@packarma.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), "a1", "secret123", "newsecret1"))

	_, err = svc.Refresh(context.Background(), login.RefreshToken, "", "")
	require.Error(t, err)
}

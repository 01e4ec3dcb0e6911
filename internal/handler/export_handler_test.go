package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packarma/admin-api/internal/middleware"
	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/permission"
	"github.com/packarma/admin-api/internal/service"
	"github.com/packarma/admin-api/pkg/export"
	"github.com/packarma/admin-api/pkg/storage"
)

// exportAuthRepoStub backs an AuthService with one fixed staff account and
// permission set; the token and audit methods are never reached here.
type exportAuthRepoStub struct {
	admin *models.Admin
	perms []models.AdminPermission
}

func (r *exportAuthRepoStub) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.admin, nil
}

func (r *exportAuthRepoStub) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	return r.admin, nil
}

func (r *exportAuthRepoStub) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (r *exportAuthRepoStub) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	return nil
}

func (r *exportAuthRepoStub) Permissions(ctx context.Context, adminID string) ([]models.AdminPermission, error) {
	return r.perms, nil
}

func (r *exportAuthRepoStub) StoreRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return nil
}

func (r *exportAuthRepoStub) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return nil, nil
}

func (r *exportAuthRepoStub) RevokeRefreshToken(ctx context.Context, id string) error {
	return nil
}

func (r *exportAuthRepoStub) RevokeAdminRefreshTokens(ctx context.Context, adminID string) error {
	return nil
}

func (r *exportAuthRepoStub) InsertAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return nil
}

type memoryCache struct {
	values map[string][]byte
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.values[key]
	if !ok {
		return assert.AnError
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.values, key)
	return nil
}

// exportEndpoint wires the real permission gate in front of the export route
// the way the router does, with the staff account granted the given rows.
func exportEndpoint(t *testing.T, perms []models.AdminPermission, rows int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &exportAuthRepoStub{
		admin: &models.Admin{ID: "adm-1", Role: models.RoleStaff, Status: models.StatusActive},
		perms: perms,
	}
	authSvc := service.NewAuthService(repo, nil, nil, nil, service.AuthConfig{Secret: "test-secret"})

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("export-test-secret", time.Hour)
	exportSvc := service.NewExportService(store, &memoryCache{values: map[string][]byte{}}, signer, service.ExportConfig{
		AsyncRowThreshold: 1,
	}, nil)
	exportSvc.Register("category", service.DatasetSource{
		Title: "Categories",
		Count: func(ctx context.Context, q service.ExportQuery) (int, error) {
			return rows, nil
		},
		Build: func(ctx context.Context, q service.ExportQuery) (export.Dataset, error) {
			return export.Dataset{Headers: []string{"Name"}}, nil
		},
	})

	h := NewExportHandler(exportSvc)
	r := gin.New()
	r.POST("/categories/export",
		func(c *gin.Context) {
			c.Set(middleware.ContextAdminKey, &models.JWTClaims{AdminID: "adm-1", Role: models.RoleStaff})
		},
		middleware.Require(authSvc, permission.SectionProduct, permission.CanExport),
		h.Export("category"))
	return r
}

func postExport(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/categories/export", bytes.NewBufferString(`{"format":"csv"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestExportEndpointQueuesLargeDataset(t *testing.T) {
	r := exportEndpoint(t, []models.AdminPermission{
		{PageName: permission.SectionProduct, CanExport: true},
	}, 500)

	w := postExport(r)
	require.Equal(t, http.StatusAccepted, w.Code)

	var body struct {
		Data service.ExportJobStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, service.ExportStatusPending, body.Data.Status)
	assert.NotEmpty(t, body.Data.ID)
	assert.Equal(t, "category", body.Data.Resource)
}

func TestExportEndpointDeniedWithoutExportGrant(t *testing.T) {
	r := exportEndpoint(t, []models.AdminPermission{
		{PageName: permission.SectionProduct, CanCreate: true, CanUpdate: true},
	}, 500)

	w := postExport(r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExportEndpointDeniedForOtherSectionGrant(t *testing.T) {
	r := exportEndpoint(t, []models.AdminPermission{
		{PageName: permission.SectionMaster, CanExport: true},
	}, 500)

	w := postExport(r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

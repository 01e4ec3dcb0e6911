package router

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/packarma/admin-api/internal/handler"
	"github.com/packarma/admin-api/internal/permission"
)

type registerFn func(rg *gin.RouterGroup, deps Deps, exports *handler.ExportHandler, gate gateFunc, audit auditFunc)

// registerGroup runs one route-registration function with a gate that records
// the sections it consulted, and returns the registered METHOD+path set.
func registerGroup(t *testing.T, register registerFn) (paths, sections map[string]bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sections = map[string]bool{}
	gate := func(section string, capability permission.Capability) gin.HandlerFunc {
		sections[section] = true
		return func(c *gin.Context) {}
	}
	audit := func(action, resource string) gin.HandlerFunc {
		return func(c *gin.Context) {}
	}

	r := gin.New()
	register(r.Group("/api/v1"), Deps{}, handler.NewExportHandler(nil), gate, audit)

	paths = map[string]bool{}
	for _, route := range r.Routes() {
		paths[route.Method+" "+route.Path] = true
	}
	return paths, sections
}

func TestCategoryRoutesLiveInProductSection(t *testing.T) {
	paths, sections := registerGroup(t, registerProductRoutes)

	assert.True(t, paths["POST /api/v1/categories"])
	assert.True(t, paths["DELETE /api/v1/sub-categories/:id"])
	assert.True(t, paths["POST /api/v1/categories/export"])
	assert.True(t, paths["POST /api/v1/packaging-materials"])
	assert.Equal(t, map[string]bool{permission.SectionProduct: true}, sections)
}

func TestMasterRoutesGateOnlyOnMasterSection(t *testing.T) {
	paths, sections := registerGroup(t, registerMasterRoutes)

	assert.False(t, paths["GET /api/v1/categories"])
	assert.False(t, paths["GET /api/v1/sub-categories"])
	assert.True(t, paths["POST /api/v1/banners"])
	assert.Equal(t, map[string]bool{permission.SectionMaster: true}, sections)
}

func TestCustomerReportExportsGateOnCustomerSection(t *testing.T) {
	paths, sections := registerGroup(t, registerCustomerRoutes)

	assert.True(t, paths["POST /api/v1/enquiries/export"])
	assert.True(t, paths["POST /api/v1/referrals/export"])
	assert.Equal(t, map[string]bool{permission.SectionCustomer: true}, sections)
}

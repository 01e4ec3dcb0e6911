package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/packarma/admin-api/internal/handler"
	"github.com/packarma/admin-api/internal/middleware"
	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/permission"
	"github.com/packarma/admin-api/internal/repository"
	"github.com/packarma/admin-api/internal/service"
	"github.com/packarma/admin-api/pkg/config"
	"github.com/packarma/admin-api/pkg/logger"
	corsmiddleware "github.com/packarma/admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/packarma/admin-api/pkg/middleware/requestid"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Auth             *service.AuthService
	Admins           *service.AdminService
	Categories       *service.CategoryService
	SubCategories    *service.SubCategoryService
	Banners          *service.BannerService
	Advertisements   *service.AdvertisementService
	Subscriptions    *service.SubscriptionService
	Packaging        *service.PackagingService
	MeasurementUnits *service.MeasurementUnitService
	AppUsers         *service.AppUserService
	Reports          *service.ReportService
	Exports          *service.ExportService
	Metrics          *service.MetricsService

	AdminRepo *repository.AdminRepository
}

type gateFunc func(section string, capability permission.Capability) gin.HandlerFunc
type auditFunc func(action, resource string) gin.HandlerFunc

// New assembles the gin engine: ambient middleware, public auth and download
// routes, and the permission-gated resource groups.
func New(cfg *config.Config, logr *zap.Logger, deps Deps) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	metricsHandler := handler.NewMetricsHandler(deps.Metrics)
	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authHandler := handler.NewAuthHandler(deps.Auth)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	exportHandler := handler.NewExportHandler(deps.Exports)
	// download auth is carried by the signed token itself
	api.GET("/exports/download/:token", exportHandler.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(deps.Auth))

	authed.POST("/auth/logout", authHandler.Logout)
	authed.PUT("/auth/password", authHandler.ChangePassword)
	authed.GET("/auth/me", authHandler.Me)

	authed.GET("/exports/jobs/:id", exportHandler.Status)

	gate := func(section string, capability permission.Capability) gin.HandlerFunc {
		return middleware.Require(deps.Auth, section, capability)
	}
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(deps.AdminRepo, action, resource)
	}

	registerMasterRoutes(authed, deps, exportHandler, gate, audit)
	registerProductRoutes(authed, deps, exportHandler, gate, audit)
	registerCustomerRoutes(authed, deps, exportHandler, gate, audit)
	registerStaffRoutes(authed, deps, gate, audit)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found"}})
	})

	return r
}

func registerMasterRoutes(rg *gin.RouterGroup, deps Deps, exports *handler.ExportHandler, gate gateFunc, audit auditFunc) {
	section := permission.SectionMaster

	banners := handler.NewBannerHandler(deps.Banners)
	rg.GET("/banners", banners.List)
	rg.GET("/banners/:id", banners.Get)
	rg.POST("/banners", gate(section, permission.CanCreate), audit("create", "banner"), banners.Create)
	rg.PUT("/banners/:id", gate(section, permission.CanUpdate), audit("update", "banner"), banners.Update)
	rg.PATCH("/banners/:id/status", gate(section, permission.CanUpdate), audit("toggle_status", "banner"), banners.ToggleStatus)
	rg.PATCH("/banners/:id/sequence", gate(section, permission.CanUpdate), audit("reorder", "banner"), banners.Reorder)
	rg.DELETE("/banners/:id", gate(section, permission.CanDelete), audit("delete", "banner"), banners.Delete)
	rg.POST("/banners/export", gate(section, permission.CanExport), exports.Export("banner"))

	ads := handler.NewAdvertisementHandler(deps.Advertisements)
	rg.GET("/advertisements", ads.List)
	rg.GET("/advertisements/:id", ads.Get)
	rg.POST("/advertisements", gate(section, permission.CanCreate), audit("create", "advertisement"), ads.Create)
	rg.PUT("/advertisements/:id", gate(section, permission.CanUpdate), audit("update", "advertisement"), ads.Update)
	rg.PATCH("/advertisements/:id/status", gate(section, permission.CanUpdate), audit("toggle_status", "advertisement"), ads.ToggleStatus)
	rg.PATCH("/advertisements/:id/sequence", gate(section, permission.CanUpdate), audit("reorder", "advertisement"), ads.Reorder)
	rg.DELETE("/advertisements/:id", gate(section, permission.CanDelete), audit("delete", "advertisement"), ads.Delete)
	rg.POST("/advertisements/export", gate(section, permission.CanExport), exports.Export("advertisement"))

	subs := handler.NewSubscriptionHandler(deps.Subscriptions)
	rg.GET("/subscriptions", subs.ListPlans)
	rg.GET("/subscriptions/:id", subs.GetPlan)
	rg.POST("/subscriptions", gate(section, permission.CanCreate), audit("create", "subscription_plan"), subs.CreatePlan)
	rg.PUT("/subscriptions/:id", gate(section, permission.CanUpdate), audit("update", "subscription_plan"), subs.UpdatePlan)
	rg.PATCH("/subscriptions/:id/status", gate(section, permission.CanUpdate), audit("toggle_status", "subscription_plan"), subs.TogglePlanStatus)
	rg.PATCH("/subscriptions/:id/sequence", gate(section, permission.CanUpdate), audit("reorder", "subscription_plan"), subs.ReorderPlan)
	rg.DELETE("/subscriptions/:id", gate(section, permission.CanDelete), audit("delete", "subscription_plan"), subs.DeletePlan)
	rg.POST("/subscriptions/export", gate(section, permission.CanExport), exports.Export("subscription_plan"))

	rg.GET("/credit-prices", subs.ListCreditPrices)
	rg.GET("/credit-prices/:id", subs.GetCreditPrice)
	rg.POST("/credit-prices", gate(section, permission.CanCreate), audit("create", "credit_price"), subs.CreateCreditPrice)
	rg.PUT("/credit-prices/:id", gate(section, permission.CanUpdate), audit("update", "credit_price"), subs.UpdateCreditPrice)
	rg.PATCH("/credit-prices/:id/status", gate(section, permission.CanUpdate), audit("toggle_status", "credit_price"), subs.ToggleCreditPriceStatus)
	rg.DELETE("/credit-prices/:id", gate(section, permission.CanDelete), audit("delete", "credit_price"), subs.DeleteCreditPrice)
	rg.POST("/credit-prices/export", gate(section, permission.CanExport), exports.Export("credit_price"))
}

func registerProductRoutes(rg *gin.RouterGroup, deps Deps, exports *handler.ExportHandler, gate gateFunc, audit auditFunc) {
	section := permission.SectionProduct

	categories := handler.NewCategoryHandler(deps.Categories)
	rg.GET("/categories", categories.List)
	rg.GET("/categories/:id", categories.Get)
	rg.POST("/categories", gate(section, permission.CanCreate), audit("create", "category"), categories.Create)
	rg.PUT("/categories/:id", gate(section, permission.CanUpdate), audit("update", "category"), categories.Update)
	rg.PATCH("/categories/:id/status", gate(section, permission.CanUpdate), audit("toggle_status", "category"), categories.ToggleStatus)
	rg.DELETE("/categories/:id", gate(section, permission.CanDelete), audit("delete", "category"), categories.Delete)
	rg.POST("/categories/export", gate(section, permission.CanExport), exports.Export("category"))

	subCategories := handler.NewSubCategoryHandler(deps.SubCategories)
	rg.GET("/sub-categories", subCategories.List)
	rg.GET("/sub-categories/:id", subCategories.Get)
	rg.POST("/sub-categories", gate(section, permission.CanCreate), audit("create", "sub_category"), subCategories.Create)
	rg.PUT("/sub-categories/:id", gate(section, permission.CanUpdate), audit("update", "sub_category"), subCategories.Update)
	rg.PATCH("/sub-categories/:id/status", gate(section, permission.CanUpdate), audit("toggle_status", "sub_category"), subCategories.ToggleStatus)
	rg.DELETE("/sub-categories/:id", gate(section, permission.CanDelete), audit("delete", "sub_category"), subCategories.Delete)
	rg.POST("/sub-categories/export", gate(section, permission.CanExport), exports.Export("sub_category"))

	packaging := handler.NewPackagingHandler(deps.Packaging)
	kinds := []models.PackagingKind{models.PackagingMaterial, models.PackagingTreatment, models.PackagingType}
	for _, kind := range kinds {
		base := "/" + kind.Resource()
		resource := string(kind)
		rg.GET(base, packaging.List(kind))
		rg.GET(base+"/:id", packaging.Get(kind))
		rg.POST(base, gate(section, permission.CanCreate), audit("create", resource), packaging.Create(kind))
		rg.PUT(base+"/:id", gate(section, permission.CanUpdate), audit("update", resource), packaging.Update(kind))
		rg.PATCH(base+"/:id/status", gate(section, permission.CanUpdate), audit("toggle_status", resource), packaging.ToggleStatus(kind))
		rg.DELETE(base+"/:id", gate(section, permission.CanDelete), audit("delete", resource), packaging.Delete(kind))
		rg.POST(base+"/export", gate(section, permission.CanExport), exports.Export(kind.Resource()))
	}

	units := handler.NewMeasurementUnitHandler(deps.MeasurementUnits)
	rg.GET("/measurement-units", units.List)
	rg.GET("/measurement-units/:id", units.Get)
	rg.POST("/measurement-units", gate(section, permission.CanCreate), audit("create", "measurement_unit"), units.Create)
	rg.PUT("/measurement-units/:id", gate(section, permission.CanUpdate), audit("update", "measurement_unit"), units.Update)
	rg.PATCH("/measurement-units/:id/status", gate(section, permission.CanUpdate), audit("toggle_status", "measurement_unit"), units.ToggleStatus)
	rg.DELETE("/measurement-units/:id", gate(section, permission.CanDelete), audit("delete", "measurement_unit"), units.Delete)
	rg.POST("/measurement-units/export", gate(section, permission.CanExport), exports.Export("measurement_unit"))
}

func registerCustomerRoutes(rg *gin.RouterGroup, deps Deps, exports *handler.ExportHandler, gate gateFunc, audit auditFunc) {
	section := permission.SectionCustomer

	users := handler.NewAppUserHandler(deps.AppUsers)
	rg.GET("/app-users", users.List)
	rg.GET("/app-users/:id", users.Get)
	rg.PATCH("/app-users/:id/status", gate(section, permission.CanUpdate), audit("toggle_status", "app_user"), users.ToggleStatus)
	rg.POST("/app-users/export", gate(section, permission.CanExport), exports.Export("app_user"))

	subs := handler.NewSubscriptionHandler(deps.Subscriptions)
	rg.GET("/user-subscriptions", subs.ListUserSubscriptions)
	rg.POST("/user-subscriptions/export", gate(section, permission.CanExport), exports.Export("user_subscription"))

	reports := handler.NewReportHandler(deps.Reports)
	rg.GET("/enquiries", reports.ListEnquiries)
	rg.GET("/enquiries/:id", reports.GetEnquiry)
	rg.POST("/enquiries/export", gate(section, permission.CanExport), exports.Export("enquiry"))
	rg.GET("/referrals", reports.ListReferrals)
	rg.POST("/referrals/export", gate(section, permission.CanExport), exports.Export("referral"))
}

func registerStaffRoutes(rg *gin.RouterGroup, deps Deps, gate gateFunc, audit auditFunc) {
	section := permission.SectionStaff

	admins := handler.NewAdminHandler(deps.Admins)
	rg.GET("/admins", admins.List)
	rg.GET("/admins/:id", admins.Get)
	rg.POST("/admins", gate(section, permission.CanCreate), audit("create", "admin"), admins.Create)
	rg.PUT("/admins/:id", gate(section, permission.CanUpdate), audit("update", "admin"), admins.Update)
	rg.PATCH("/admins/:id/status", gate(section, permission.CanUpdate), audit("toggle_status", "admin"), admins.ToggleStatus)
	rg.DELETE("/admins/:id", gate(section, permission.CanDelete), audit("delete", "admin"), admins.Delete)
	rg.GET("/admins/:id/permissions", admins.Permissions)
	rg.PUT("/admins/:id/permissions", gate(section, permission.CanUpdate), audit("replace_permissions", "admin_permission"), admins.ReplacePermissions)
}

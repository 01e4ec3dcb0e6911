package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	_ "github.com/packarma/admin-api/api/swagger"
	"github.com/packarma/admin-api/internal/repository"
	"github.com/packarma/admin-api/internal/router"
	"github.com/packarma/admin-api/internal/service"
	"github.com/packarma/admin-api/pkg/cache"
	"github.com/packarma/admin-api/pkg/config"
	"github.com/packarma/admin-api/pkg/database"
	"github.com/packarma/admin-api/pkg/logger"
	"github.com/packarma/admin-api/pkg/storage"
)

// @title Packarma Admin API
// @version 1.0.0
// @description Back-office API: master data, customers, staff permissions and exports
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, permission caching disabled", "error", err)
		redisClient = nil
	}

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	adminRepo := repository.NewAdminRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	subCategoryRepo := repository.NewSubCategoryRepository(db)
	bannerRepo := repository.NewBannerRepository(db)
	adRepo := repository.NewAdvertisementRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	packagingRepo := repository.NewPackagingRepository(db)
	unitRepo := repository.NewMeasurementUnitRepository(db)
	appUserRepo := repository.NewAppUserRepository(db)
	enquiryRepo := repository.NewEnquiryRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()

	authService := service.NewAuthService(adminRepo, cacheRepo, validate, logr, service.AuthConfig{
		Secret:             cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "packarma-admin-api",
	})
	adminService := service.NewAdminService(adminRepo, cacheRepo, validate, logr)
	categoryService := service.NewCategoryService(categoryRepo, validate, logr)
	subCategoryService := service.NewSubCategoryService(subCategoryRepo, categoryRepo, validate, logr)
	bannerService := service.NewBannerService(bannerRepo, validate, logr)
	adService := service.NewAdvertisementService(adRepo, validate, logr)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, validate, logr)
	packagingService := service.NewPackagingService(packagingRepo, validate, logr)
	unitService := service.NewMeasurementUnitService(unitRepo, validate, logr)
	appUserService := service.NewAppUserService(appUserRepo, logr)
	reportService := service.NewReportService(enquiryRepo, referralRepo, logr)
	metricsService := service.NewMetricsService()

	exportService := service.NewExportService(exportStore, cacheRepo, signer, service.ExportConfig{
		AsyncRowThreshold: cfg.Exports.AsyncRowThreshold,
		APIPrefix:         cfg.APIPrefix,
		ResultTTL:         cfg.Exports.ResultTTL,
		Workers:           cfg.Exports.WorkerConcurrency,
	}, logr)
	service.RegisterExportSources(
		exportService,
		categoryService,
		subCategoryService,
		bannerService,
		adService,
		subscriptionService,
		packagingService,
		unitService,
		appUserService,
		reportService,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exportService.Start(ctx)
	defer exportService.Stop()

	engine := router.New(cfg, logr, router.Deps{
		Auth:             authService,
		Admins:           adminService,
		Categories:       categoryService,
		SubCategories:    subCategoryService,
		Banners:          bannerService,
		Advertisements:   adService,
		Subscriptions:    subscriptionService,
		Packaging:        packagingService,
		MeasurementUnits: unitService,
		AppUsers:         appUserService,
		Reports:          reportService,
		Exports:          exportService,
		Metrics:          metricsService,
		AdminRepo:        adminRepo,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

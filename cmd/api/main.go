package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	_ "github.com/coursedeck/coursedeck-api/api/swagger"
	"github.com/coursedeck/coursedeck-api/internal/handler"
	"github.com/coursedeck/coursedeck-api/internal/repository"
	"github.com/coursedeck/coursedeck-api/internal/router"
	"github.com/coursedeck/coursedeck-api/internal/seed"
	"github.com/coursedeck/coursedeck-api/internal/service"
	"github.com/coursedeck/coursedeck-api/pkg/cache"
	"github.com/coursedeck/coursedeck-api/pkg/config"
	"github.com/coursedeck/coursedeck-api/pkg/database"
	"github.com/coursedeck/coursedeck-api/pkg/logger"
	"github.com/coursedeck/coursedeck-api/pkg/oauth"
)

// @title CourseDeck API
// @version 1.0.0
// @description Course catalog backend: auth, browsing, cart, enrollment and admin statistics
// @BasePath /
// @schemes http
// @securityDefinitions.apikey TokenAuth
// @in header
// @name x-auth-token

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
		logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		redisClient = nil
	}

	accountRepo := repository.NewAccountRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	authSvc, err := service.NewAuthService(accountRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
		Allowlist:  cfg.Admin.Allowlist,
	})
	if err != nil {
		logr.Sugar().Fatalw("failed to init auth service", "error", err)
	}

	catalogSvc := service.NewCatalogService(courseRepo, cacheRepo, metricsSvc, validate, logr, service.CatalogConfig{
		CacheTTL: cfg.Catalog.CacheTTL,
	})
	enrollmentSvc := service.NewEnrollmentService(accountRepo, courseRepo, logr)
	exportSvc := service.NewExportService(courseRepo, nil, nil, logr)

	if cfg.Catalog.SeedOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		courses, err := seed.Courses()
		if err == nil {
			_, err = catalogSvc.Seed(ctx, courses)
		}
		cancel()
		if err != nil {
			logr.Sugar().Warnw("catalog seeding failed", "error", err)
		}
	}

	googleProvider := oauth.NewGoogleProvider(
		cfg.Google.ClientID,
		cfg.Google.ClientSecret,
		cfg.BackendURL+"/auth/google/callback",
	)

	r := router.New(router.Dependencies{
		Config:      cfg,
		Logger:      logr,
		Auth:        authSvc,
		Metrics:     metricsSvc,
		AuthHandler: handler.NewAuthHandler(authSvc, googleProvider, cfg.FrontendURL, logr),
		Courses:     handler.NewCourseHandler(catalogSvc, exportSvc),
		Enrollment:  handler.NewEnrollmentHandler(enrollmentSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/skit-dev/sodeca-api/api/swagger"
	"github.com/skit-dev/sodeca-api/internal/forms"
	"github.com/skit-dev/sodeca-api/internal/handler"
	"github.com/skit-dev/sodeca-api/internal/middleware"
	"github.com/skit-dev/sodeca-api/internal/repository"
	"github.com/skit-dev/sodeca-api/internal/service"
	"github.com/skit-dev/sodeca-api/pkg/cache"
	"github.com/skit-dev/sodeca-api/pkg/config"
	"github.com/skit-dev/sodeca-api/pkg/database"
	"github.com/skit-dev/sodeca-api/pkg/jobs"
	"github.com/skit-dev/sodeca-api/pkg/logger"
	corsmiddleware "github.com/skit-dev/sodeca-api/pkg/middleware/cors"
	reqidmiddleware "github.com/skit-dev/sodeca-api/pkg/middleware/requestid"
	"github.com/skit-dev/sodeca-api/pkg/storage"
)

// @title SODECA Portal API
// @version 1.0.0
// @description Student certificate submission and review portal
// @BasePath /
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
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	uploads, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare upload storage", "error", err)
	}
	exports, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}

	registry, err := forms.Default()
	if err != nil {
		logr.Sugar().Fatalw("invalid form definitions", "error", err)
	}

	ctx := context.Background()

	// Materialize one table per form definition before serving traffic. A
	// definition the database cannot hold is a startup failure, not a 500.
	schemas := repository.NewSchemaRepository(db, logr)
	if err := schemas.EnsureBaseTables(ctx); err != nil {
		logr.Sugar().Fatalw("failed to ensure base tables", "error", err)
	}
	for _, def := range registry.Definitions() {
		if err := schemas.EnsureTable(ctx, def); err != nil {
			logr.Sugar().Fatalw("failed to materialize form table", "form", def.Key, "error", err)
		}
	}

	students := repository.NewStudentRepository(db)
	profiles := repository.NewProfileRepository(db)
	submissions := repository.NewSubmissionRepository(db)
	sessions := repository.NewSessionRepository(redisClient, cfg.Session.TTL)

	validate := validator.New()
	metrics := service.NewMetricsService()
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	provider := service.NewGoogleProvider(service.GoogleProviderConfig{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURL:  cfg.OAuth.RedirectURL,
	})

	authSvc := service.NewAuthService(students, sessions, provider, validate, metrics, logr, service.AuthConfig{
		StateSecret: cfg.Session.Secret,
		StateTTL:    cfg.OAuth.StateTTL,
	})
	profileSvc := service.NewProfileService(profiles, validate, logr)
	workflowSvc := service.NewWorkflowService(registry, sessions, profiles, logr)
	submissionSvc := service.NewSubmissionService(registry, submissions, profiles, uploads, metrics, logr)
	reviewSvc := service.NewReviewService(registry, submissions, exports, signer, jobs.QueueConfig{
		Workers: cfg.Exports.Workers,
	}, logr)
	donationSvc := service.NewBloodDonationService(exports, profiles, cfg.Exports.LedgerFile, logr)

	reviewSvc.StartWorkers(ctx)
	defer reviewSvc.StopWorkers()

	cookies := handler.CookieConfig{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.Secure,
	}
	authHandler := handler.NewAuthHandler(authSvc, cookies)
	profileHandler := handler.NewProfileHandler(profileSvc)
	workflowHandler := handler.NewWorkflowHandler(workflowSvc, submissionSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	donationHandler := handler.NewBloodDonationHandler(donationSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Uploads.MaxSizeBytes
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.LoginStatus)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/auth/google", authHandler.GoogleLogin)
	r.GET("/auth/google/callback", authHandler.GoogleCallback)

	r.GET("/exports/:token", reviewHandler.Download)

	auth := r.Group("/", middleware.Session(sessions, cfg.Session.CookieName))
	{
		auth.GET("/student_details", profileHandler.Get)
		auth.POST("/student_details", profileHandler.Save)

		auth.GET("/sodeca_forms", workflowHandler.ListForms)
		auth.POST("/sodeca_forms", workflowHandler.SelectForms)
		auth.GET("/verify_student_details", workflowHandler.ShowDetails)
		auth.POST("/verify_student_details", workflowHandler.ConfirmDetails)
		auth.GET("/fill_form", workflowHandler.CurrentForm)
		auth.POST("/fill_form", workflowHandler.SubmitForm)

		auth.GET("/blood_donation", donationHandler.Describe)
		auth.POST("/blood_donation", donationHandler.Record)

		staff := auth.Group("/", middleware.RequireStaff())
		{
			staff.GET("/check_submissions", reviewHandler.List)
			staff.PATCH("/check_submissions/:form/:studentId", reviewHandler.UpdateStatus)
			staff.POST("/update_sheets", reviewHandler.StartExport)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

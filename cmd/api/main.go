package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courtdesk/registry-api/internal/audit"
	"github.com/courtdesk/registry-api/internal/config"
	"github.com/courtdesk/registry-api/internal/database"
	"github.com/courtdesk/registry-api/internal/handler"
	"github.com/courtdesk/registry-api/internal/middleware"
	"github.com/courtdesk/registry-api/internal/models"
	"github.com/courtdesk/registry-api/internal/observability"
	"github.com/courtdesk/registry-api/internal/repository"
	"github.com/courtdesk/registry-api/internal/router"
	"github.com/courtdesk/registry-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Every action must carry a registered payload shape and badge before the
	// server takes traffic.
	if err := audit.CheckCoverage(); err != nil {
		log.Fatalf("audit action registry is inconsistent: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Case{},
		&models.Employee{},
		&models.ReceivingLog{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	observability.RegisterMetrics()

	validate := validator.New(validator.WithRequiredStructEnabled())

	auditRepo := repository.NewAuditLogRepository(db)
	userRepo := repository.NewUserRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	receivingLogRepo := repository.NewReceivingLogRepository(db)

	auditService := service.NewAuditService(auditRepo, userRepo, caseRepo, employeeRepo, logger)
	authService := service.NewAuthService(userRepo, auditService, validate, cfg.JWTSecret, cfg.TokenTTL, cfg.ResetTokenTTL, logger)
	userService := service.NewUserService(userRepo, auditService, validate, logger)
	caseService := service.NewCaseService(caseRepo, auditService, validate, logger)
	employeeService := service.NewEmployeeService(employeeRepo, auditService, validate, logger)
	receivingLogService := service.NewReceivingLogService(receivingLogRepo, validate, logger)
	dashboardService := service.NewDashboardService(caseRepo, employeeRepo, receivingLogRepo, redisClient, cfg.DashboardCacheTTL, logger)

	deps := router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		UserHandler:         handler.NewUserHandler(userService, logger),
		CaseHandler:         handler.NewCaseHandler(caseService, logger),
		EmployeeHandler:     handler.NewEmployeeHandler(employeeService, logger),
		ReceivingLogHandler: handler.NewReceivingLogHandler(receivingLogService, logger),
		ActivityHandler:     handler.NewActivityHandler(auditService, logger),
		DashboardHandler:    handler.NewDashboardHandler(dashboardService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, deps)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

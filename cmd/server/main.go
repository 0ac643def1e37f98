package main

import (
	"context"
	"log"
	"net/http"

	_ "eduphysics/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"eduphysics/internal/auth"
	"eduphysics/internal/cache"
	"eduphysics/internal/config"
	"eduphysics/internal/db"
	"eduphysics/internal/handler"
	"eduphysics/internal/model"
	"eduphysics/internal/repository"
	"eduphysics/internal/router"
	"eduphysics/internal/service"
)

// @title EduPhysics Academy API
// @version 1.0
// @description Tutoring-center student registration backend with admin CRUD, public self-registration, and analytics.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.Admin{},
		&model.Student{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	studentRepo := repository.NewStudentRepository(gormDB)
	adminRepo := repository.NewAdminRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(adminRepo, jwtService, tokenStore)
	studentService := service.NewStudentService(studentRepo, service.NewStudentValidator(), cacheClient)
	analyticsService := service.NewAnalyticsService(studentRepo, cacheClient)

	// Seed the first admin credential if none exists
	if err := authService.EnsureDefaultAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("seed default admin: %v", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(studentService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	healthHandler := handler.NewHealthHandler(gormDB)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		studentHandler,
		analyticsHandler,
		healthHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

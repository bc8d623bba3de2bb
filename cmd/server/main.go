package main

import (
	"log"
	"net/http"

	_ "damagelens/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"damagelens/internal/auth"
	"damagelens/internal/cache"
	"damagelens/internal/config"
	"damagelens/internal/db"
	"damagelens/internal/handler"
	"damagelens/internal/model"
	"damagelens/internal/predictor"
	"damagelens/internal/repository"
	"damagelens/internal/router"
	"damagelens/internal/service"
)

// @title Vehicle Damage Estimation API
// @version 1.0
// @description Vehicle damage estimation portal with JWT authentication, admin dashboard, notifications, feedback board and ML prediction proxy.
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

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Notification{},
		&model.Prediction{},
		&model.Feedback{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)
	predictionRepo := repository.NewPredictionRepository(gormDB)
	feedbackRepo := repository.NewFeedbackRepository(gormDB)

	// Initialize auth and upstream clients
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	predictClient := predictor.New(cfg.PredictURL, cfg.PredictTimeout)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo, cacheClient)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	predictionService := service.NewPredictionService(predictionRepo, predictClient)
	feedbackService := service.NewFeedbackService(feedbackRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, cfg.UploadDir)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	predictionHandler := handler.NewPredictionHandler(predictionService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		userHandler,
		notificationHandler,
		predictionHandler,
		feedbackHandler,
	)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "http://localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

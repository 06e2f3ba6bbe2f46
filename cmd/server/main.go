package main

import (
	"log"
	"net/http"
	"os"

	_ "trackmyfood/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"trackmyfood/internal/auth"
	"trackmyfood/internal/cache"
	"trackmyfood/internal/config"
	"trackmyfood/internal/db"
	"trackmyfood/internal/handler"
	"trackmyfood/internal/model"
	"trackmyfood/internal/repository"
	"trackmyfood/internal/router"
	"trackmyfood/internal/service"
)

// @title TrackMyFood Accounts API
// @version 1.0
// @description User-account backend for the TrackMyFood tracker: registration, JWT authentication, and profile management.
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

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		if err := gormDB.Migrator().DropTable(&model.User{}); err != nil {
			log.Printf("Warning: Failed to drop table (may not exist): %v", err)
		}
		log.Println("Tables dropped")
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService, jwtService)
	userHandler := handler.NewUserHandler(userService)

	// Register routes
	router.Register(e, jwtService, authHandler, userHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

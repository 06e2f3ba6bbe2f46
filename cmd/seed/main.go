package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"trackmyfood/internal/config"
	"trackmyfood/internal/db"
	"trackmyfood/internal/model"
	"trackmyfood/internal/repository"
)

// Bootstraps a staff account so the user listing has an all-users viewer.
// Credentials come from SEED_ADMIN_USERNAME / SEED_ADMIN_EMAIL /
// SEED_ADMIN_PASSWORD.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	username := envOr("SEED_ADMIN_USERNAME", "admin")
	email := envOr("SEED_ADMIN_EMAIL", "admin@trackmyfood.local")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD must be set")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	ctx := context.Background()
	repo := repository.NewUserRepository(gormDB)

	existing, err := repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		existing.Email = email
		existing.PasswordHash = string(hashed)
		existing.IsStaff = true
		existing.IsActive = true
		if err := repo.Update(ctx, existing); err != nil {
			log.Fatalf("Failed to update staff user: %v", err)
		}
		log.Printf("Updated existing staff user %q (id=%d)", username, existing.ID)
	case err == gorm.ErrRecordNotFound:
		user := &model.User{
			Username:       username,
			Email:          email,
			PasswordHash:   string(hashed),
			IsStaff:        true,
			IsActive:       true,
			UnitPreference: model.UnitMetric,
		}
		if err := repo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create staff user: %v", err)
		}
		log.Printf("Created staff user %q (id=%d)", username, user.ID)
	default:
		log.Fatalf("Failed to look up staff user: %v", err)
	}

	log.Println("Seed completed")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

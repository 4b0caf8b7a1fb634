//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hugh/leadtrack/internal/auth"
	"github.com/hugh/leadtrack/internal/database"
	"github.com/hugh/leadtrack/pkg/config"
	"github.com/hugh/leadtrack/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Create reviewer account
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService)

	email := os.Getenv("REVIEWER_EMAIL")
	password := os.Getenv("REVIEWER_PASSWORD")
	name := os.Getenv("REVIEWER_NAME")

	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "admin123!"
	}
	if name == "" {
		name = "Admin"
	}

	user, err := authService.CreateUser(context.Background(), email, password, name)
	if err != nil {
		if err == auth.ErrUserExists {
			fmt.Printf("Reviewer already exists: %s\n", email)
			return
		}
		log.Fatalf("failed to create reviewer: %v", err)
	}

	fmt.Printf("Reviewer created successfully!\n")
	fmt.Printf("Email: %s\n", user.Email)
}

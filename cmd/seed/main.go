package main

import (
	"context"
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"damagelens/internal/config"
	"damagelens/internal/db"
	"damagelens/internal/model"
	"damagelens/internal/repository"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Feedback{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	if err := seedAdmin(ctx, gormDB); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	if err := seedFeedback(ctx, gormDB); err != nil {
		log.Fatalf("Failed to seed feedback: %v", err)
	}

	log.Println("Seed completed")
}

// seedAdmin creates the bootstrap admin account if it does not exist yet,
// so re-running the script is safe.
func seedAdmin(ctx context.Context, gormDB *gorm.DB) error {
	email := getenv("ADMIN_EMAIL", "admin@damagelens.local")
	password := getenv("ADMIN_PASSWORD", "admin123")
	name := getenv("ADMIN_NAME", "Administrator")

	userRepo := repository.NewUserRepository(gormDB)

	if _, err := userRepo.FindByEmail(ctx, email); err == nil {
		log.Printf("Admin user %s already exists, skipping", email)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}

	admin := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("Created admin user %s", email)
	return nil
}

// seedFeedback inserts a handful of sample testimonials for the landing page
// when the board is empty.
func seedFeedback(ctx context.Context, gormDB *gorm.DB) error {
	feedbackRepo := repository.NewFeedbackRepository(gormDB)

	existing, err := feedbackRepo.ListRecent(ctx, 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Println("Feedback board already populated, skipping")
		return nil
	}

	samples := []model.Feedback{
		{Name: "Ramesh", City: "Kathmandu", Review: "Got an estimate for my dented bumper in under a minute."},
		{Name: "Sita", City: "Pokhara", Review: "The damage photos were classified accurately, saved me a garage visit."},
		{Name: "Hari", City: "Lalitpur", Review: "Simple to use and the cost range matched what the workshop quoted."},
	}

	for i := range samples {
		if err := feedbackRepo.Create(ctx, &samples[i]); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d feedback entries", len(samples))
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

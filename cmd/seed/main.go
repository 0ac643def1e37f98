package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"eduphysics/internal/auth"
	"eduphysics/internal/cache"
	"eduphysics/internal/config"
	"eduphysics/internal/db"
	"eduphysics/internal/model"
	"eduphysics/internal/repository"
	"eduphysics/internal/service"
)

// SeedStudentData represents one fixture record.
type SeedStudentData struct {
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	Mobile          string   `json:"mobile"`
	Gender          string   `json:"gender"`
	Address         string   `json:"address"`
	Classes         []string `json:"classes"`
	RegisterDate    string   `json:"registerDate"`
	RegistrationFee int      `json:"registrationFee"`
}

func main() {
	fixturePath := flag.String("file", "seed/students.json", "path to students fixture JSON")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Admin{}, &model.Student{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	// The default admin is part of first-boot state; ensure it here too so a
	// freshly seeded database is immediately usable.
	adminRepo := repository.NewAdminRepository(gormDB)
	authService := service.NewAuthService(adminRepo, auth.NewJWTService(cfg.JWTSecret), auth.NewTokenStore(cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)))
	if err := authService.EnsureDefaultAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed default admin: %v", err)
	}
	log.Printf("Default admin ensured (username %q)", cfg.AdminUsername)

	log.Printf("Loading students from: %s", *fixturePath)
	fixtures, err := loadStudentsFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}
	log.Printf("Loaded %d students from fixture", len(fixtures))

	studentRepo := repository.NewStudentRepository(gormDB)
	seeded, updated, err := seedStudents(ctx, studentRepo, fixtures)
	if err != nil {
		log.Fatalf("Failed to seed students: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New students created: %d", seeded)
	log.Printf("  - Existing students updated: %d", updated)
	log.Printf("  - Total students processed: %d", seeded+updated)
}

// loadStudentsFixture reads and parses the fixture file.
func loadStudentsFixture(path string) ([]SeedStudentData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var students []SeedStudentData
	if err := json.Unmarshal(data, &students); err != nil {
		return nil, fmt.Errorf("parse fixture JSON: %w", err)
	}
	return students, nil
}

// seedStudents upserts fixture records by email.
func seedStudents(ctx context.Context, repo repository.StudentRepository, fixtures []SeedStudentData) (seeded int, updated int, err error) {
	validator := service.NewStudentValidator()

	for _, item := range fixtures {
		payload := map[string]interface{}{
			"firstName":       item.FirstName,
			"lastName":        item.LastName,
			"email":           item.Email,
			"mobile":          item.Mobile,
			"gender":          item.Gender,
			"address":         item.Address,
			"classes":         item.Classes,
			"registerDate":    item.RegisterDate,
			"registrationFee": item.RegistrationFee,
		}

		student, err := validator.ValidateCreate(payload)
		if err != nil {
			return seeded, updated, fmt.Errorf("invalid fixture record %q: %w", item.Email, err)
		}

		existing, err := repo.FindByEmail(ctx, student.Email)
		if err != nil && err != gorm.ErrRecordNotFound {
			return seeded, updated, fmt.Errorf("error checking student %s: %w", student.Email, err)
		}

		if existing != nil {
			existing.FirstName = student.FirstName
			existing.LastName = student.LastName
			existing.Mobile = student.Mobile
			existing.Gender = student.Gender
			existing.Address = student.Address
			existing.Classes = student.Classes
			existing.RegisterDate = student.RegisterDate
			existing.RegistrationFee = student.RegistrationFee
			if err := repo.Save(ctx, existing); err != nil {
				return seeded, updated, fmt.Errorf("error updating student %s: %w", student.Email, err)
			}
			updated++
		} else {
			if err := repo.Create(ctx, student); err != nil {
				return seeded, updated, fmt.Errorf("error creating student %s: %w", student.Email, err)
			}
			seeded++
		}
	}

	return seeded, updated, nil
}

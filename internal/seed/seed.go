// Package seed populates a fresh database with the baseline records the
// dashboard expects: the admin account, the default categories, and (outside
// production) a handful of demo content entries.
package seed

import (
	"fmt"
	"log/slog"
	"time"

	"parish/internal/config"
	"parish/internal/middleware"
	"parish/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	adminEmail           = "admin@example.com"
	defaultAdminPassword = "changeme123"
)

var defaultCategories = []string{"News", "Events", "Projects"}

// Run seeds the database idempotently. Existing records are never modified.
func Run(db *gorm.DB, cfg *config.Config) error {
	admin, err := seedAdmin(db)
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	if err := seedCategories(db); err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}

	if !cfg.IsProduction() {
		if err := seedDemoContent(db, admin.ID); err != nil {
			return fmt.Errorf("seeding demo content: %w", err)
		}
	}

	return nil
}

func seedAdmin(db *gorm.DB) (*models.User, error) {
	var existing models.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &models.User{
		Name:     "Admin",
		Email:    adminEmail,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return nil, err
	}

	middleware.Logger.Warn("seeded admin account with default password, change it",
		slog.String("email", adminEmail))
	return admin, nil
}

func seedCategories(db *gorm.DB) error {
	for _, name := range defaultCategories {
		var count int64
		if err := db.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&models.Category{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedDemoContent(db *gorm.DB, authorID uint) error {
	var count int64
	if err := db.Model(&models.Content{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	for i := 0; i < 6; i++ {
		status := models.StatusPublished
		var publishedAt *time.Time
		switch i % 3 {
		case 1:
			status = models.StatusDraft
		case 2:
			status = models.StatusScheduled
			future := now.Add(time.Duration(i+1) * 24 * time.Hour)
			publishedAt = &future
		}
		if status == models.StatusPublished {
			past := now.Add(-time.Duration(i+1) * 24 * time.Hour)
			publishedAt = &past
		}

		content := &models.Content{
			Title:       gofakeit.Sentence(5),
			Body:        gofakeit.Paragraph(3, 4, 12, "\n\n"),
			Excerpt:     gofakeit.Sentence(12),
			Category:    defaultCategories[i%len(defaultCategories)],
			Status:      status,
			PublishedAt: publishedAt,
			AuthorID:    authorID,
		}
		if err := db.Create(content).Error; err != nil {
			return err
		}
	}
	return nil
}

package database

import (
	"log/slog"
	"time"

	"parish/internal/middleware"
	"parish/internal/models"

	"gorm.io/gorm"
)

// legacyPost mirrors the old `posts` table, which carried the same logical
// entity as `contents` under different column names (publish_date vs
// published_at). Rows are folded into the canonical table once, after which
// the legacy table can be dropped.
type legacyPost struct {
	ID          uint
	Title       string
	Content     string
	Excerpt     *string
	Category    *string
	Status      *string
	PublishDate *time.Time `gorm:"column:publish_date"`
	ImageURL    *string    `gorm:"column:image_url"`
	ImagePath   *string    `gorm:"column:image_path"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (legacyPost) TableName() string {
	return "posts"
}

// MigrateLegacyPosts copies rows from the legacy `posts` table into the
// canonical `contents` table. Rows whose title and creation time already
// exist in `contents` are skipped, so the migration is safe to re-run.
// Returns the number of migrated rows; a missing legacy table is not an
// error.
func MigrateLegacyPosts(db *gorm.DB, defaultAuthorID uint) (int, error) {
	if !db.Migrator().HasTable("posts") {
		return 0, nil
	}

	var rows []legacyPost
	if err := db.Find(&rows).Error; err != nil {
		return 0, err
	}

	migrated := 0
	for _, p := range rows {
		var count int64
		if err := db.Model(&models.Content{}).
			Where("title = ? AND created_at = ?", p.Title, p.CreatedAt).
			Count(&count).Error; err != nil {
			return migrated, err
		}
		if count > 0 {
			continue
		}

		content := models.Content{
			Title:       p.Title,
			Body:        p.Content,
			Status:      models.StatusDraft,
			PublishedAt: p.PublishDate,
			AuthorID:    defaultAuthorID,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		}
		if p.Excerpt != nil {
			content.Excerpt = *p.Excerpt
		}
		if p.Category != nil {
			content.Category = *p.Category
		}
		if p.Status != nil && models.ValidStatus(*p.Status) {
			content.Status = *p.Status
		}
		// Scheduled rows without a date were silently accepted by the old
		// schema; demote them to draft so the canonical invariant holds.
		if content.Status == models.StatusScheduled && content.PublishedAt == nil {
			content.Status = models.StatusDraft
		}
		if p.ImageURL != nil {
			content.ImageURL = *p.ImageURL
		}
		if p.ImagePath != nil {
			content.ImagePath = *p.ImagePath
		}

		if err := db.Create(&content).Error; err != nil {
			return migrated, err
		}
		migrated++
	}

	if migrated > 0 {
		middleware.Logger.Info("legacy posts migrated", slog.Int("rows", migrated))
	}
	return migrated, nil
}

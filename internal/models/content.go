package models

import (
	"time"

	"gorm.io/gorm"
)

// Publication statuses for a Content record.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusScheduled = "scheduled"
)

// ValidStatus reports whether s is one of the three publication statuses.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusPublished || s == StatusScheduled
}

// Content is the canonical publishable unit: title, body text, optional
// excerpt and category, a tri-state publication status, and an optional
// stored image referenced by public URL plus object-store path.
//
// This collapses the two legacy schemas (posts/contents) into one table;
// see database.MigrateLegacyPosts for the adapter that folds old rows in.
type Content struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Body        string         `gorm:"column:content;type:text;not null" json:"content"`
	Excerpt     string         `json:"excerpt,omitempty"`
	Category    string         `gorm:"index" json:"category,omitempty"`
	Status      string         `gorm:"not null;default:draft;index" json:"status"`
	PublishedAt *time.Time     `gorm:"column:published_at" json:"published_at,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	ImagePath   string         `json:"image_path,omitempty"`
	AuthorID    uint           `gorm:"not null;index" json:"author_id"`
	Author      *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName pins the canonical table name.
func (Content) TableName() string {
	return "contents"
}

// PubliclyVisible reports whether the record should appear on the public
// site at the given instant: published outright, or scheduled with a
// publish date that has passed.
func (c *Content) PubliclyVisible(now time.Time) bool {
	switch c.Status {
	case StatusPublished:
		return true
	case StatusScheduled:
		return c.PublishedAt != nil && !c.PublishedAt.After(now)
	}
	return false
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups content records by name. Contents reference a category
// by name, not by id; renames are propagated transactionally so the
// string reference stays consistent.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
	// PostCount is not persisted; computed at query time so it always
	// reflects live membership.
	PostCount int            `gorm:"->;-:migration" json:"post_count"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

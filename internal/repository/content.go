package repository

import (
	"context"
	"errors"
	"time"

	"parish/internal/cache"
	"parish/internal/models"

	"gorm.io/gorm"
)

// ContentFilter narrows List results. All predicates are pushed down to the
// database; zero values are ignored.
type ContentFilter struct {
	Status     string // exact match
	TitleQuery string // case-insensitive substring
	Category   string // exact match
	// PublicOnly keeps records visible on the public site: published, or
	// scheduled with a publish date at or before VisibleAt.
	PublicOnly bool
	VisibleAt  time.Time
	Limit      int
	Offset     int
}

// ContentRepository defines persistence operations for content records.
type ContentRepository interface {
	Create(ctx context.Context, content *models.Content) error
	GetByID(ctx context.Context, id uint) (*models.Content, error)
	List(ctx context.Context, filter ContentFilter) ([]*models.Content, error)
	Update(ctx context.Context, content *models.Content) error
	Delete(ctx context.Context, id uint) error
	CountByCategory(ctx context.Context, category string) (int64, error)
	ReassignCategory(ctx context.Context, oldName, newName string) error
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(ctx context.Context, content *models.Content) error {
	if err := r.db.WithContext(ctx).Create(content).Error; err != nil {
		return models.NewPersistenceError(err)
	}
	cache.InvalidatePublicList(ctx)
	return nil
}

func (r *contentRepository) GetByID(ctx context.Context, id uint) (*models.Content, error) {
	var content models.Content
	key := cache.ContentKey(id)

	err := cache.Aside(ctx, key, &content, cache.ContentTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("Author").
			First(&content, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Content", id)
			}
			return models.NewPersistenceError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &content, nil
}

// List is always ordered newest-first by creation time; callers must not
// rely on any other ordering.
func (r *contentRepository) List(ctx context.Context, filter ContentFilter) ([]*models.Content, error) {
	var contents []*models.Content

	q := r.db.WithContext(ctx).Model(&models.Content{}).Preload("Author")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.TitleQuery != "" {
		q = q.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.TitleQuery+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.PublicOnly {
		at := filter.VisibleAt
		if at.IsZero() {
			at = time.Now()
		}
		q = q.Where("status = ? OR (status = ? AND published_at <= ?)",
			models.StatusPublished, models.StatusScheduled, at)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	if err := q.Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&contents).Error; err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return contents, nil
}

func (r *contentRepository) Update(ctx context.Context, content *models.Content) error {
	if err := r.db.WithContext(ctx).Save(content).Error; err != nil {
		return models.NewPersistenceError(err)
	}
	cache.InvalidateContent(ctx, content.ID)
	return nil
}

func (r *contentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Content{}, id)
	if res.Error != nil {
		return models.NewPersistenceError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Content", id)
	}
	cache.InvalidateContent(ctx, id)
	return nil
}

func (r *contentRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Content{}).
		Where("category = ?", category).
		Count(&count).Error; err != nil {
		return 0, models.NewPersistenceError(err)
	}
	return count, nil
}

// ReassignCategory moves every content record from oldName to newName.
// An empty newName clears the field. Cached copies of the touched records
// are dropped along with the public list, so reads never serve the old name.
func (r *contentRepository) ReassignCategory(ctx context.Context, oldName, newName string) error {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Content{}).
		Where("category = ?", oldName).
		Pluck("id", &ids).Error; err != nil {
		return models.NewPersistenceError(err)
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Content{}).
		Where("category = ?", oldName).
		Update("category", newName).Error; err != nil {
		return models.NewPersistenceError(err)
	}

	for _, id := range ids {
		cache.Invalidate(ctx, cache.ContentKey(id))
	}
	cache.InvalidatePublicList(ctx)
	return nil
}

package repository

import (
	"context"
	"errors"

	"parish/internal/cache"
	"parish/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Rename(ctx context.Context, category *models.Category, oldName string) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// withPostCount selects categories with a live membership count so the
// post_count field can never go stale.
func (r *categoryRepository) withPostCount(db *gorm.DB) *gorm.DB {
	return db.Select("categories.*, " +
		"(SELECT COUNT(*) FROM contents WHERE contents.category = categories.name AND contents.deleted_at IS NULL) as post_count")
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Category already exists")
		}
		return models.NewPersistenceError(err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.withPostCount(r.db.WithContext(ctx).Model(&models.Category{})).
		First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewPersistenceError(err)
	}
	return &category, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewPersistenceError(err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.withPostCount(r.db.WithContext(ctx).Model(&models.Category{})).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Category already exists")
		}
		return models.NewPersistenceError(err)
	}
	return nil
}

// Rename updates the category row and every content record referencing the
// old name in one transaction, so the string-keyed reference can never split
// between the two tables. Affected content cache entries are dropped after
// commit.
func (r *categoryRepository) Rename(ctx context.Context, category *models.Category, oldName string) error {
	var contentIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Content{}).
			Where("category = ?", oldName).
			Pluck("id", &contentIDs).Error; err != nil {
			return models.NewPersistenceError(err)
		}
		if err := tx.Model(&models.Content{}).
			Where("category = ?", oldName).
			Update("category", category.Name).Error; err != nil {
			return models.NewPersistenceError(err)
		}
		if err := tx.Save(category).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.NewValidationError("Category already exists")
			}
			return models.NewPersistenceError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, id := range contentIDs {
		cache.Invalidate(ctx, cache.ContentKey(id))
	}
	cache.InvalidatePublicList(ctx)
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return models.NewPersistenceError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Category", id)
	}
	return nil
}

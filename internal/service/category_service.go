package service

import (
	"context"
	"strings"

	"parish/internal/models"
	"parish/internal/repository"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	contentRepo  repository.ContentRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository, contentRepo repository.ContentRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		contentRepo:  contentRepo,
	}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Category name is required")
	}
	if len(name) > 100 {
		return nil, models.NewValidationError("Category name too long (max 100 characters)")
	}

	category := &models.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// Rename changes the category name and moves every content record that
// references the old name. Both writes happen in one repository transaction
// so the string-keyed reference cannot end up split across tables.
func (s *CategoryService) Rename(ctx context.Context, id uint, newName string) (*models.Category, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, models.NewValidationError("Category name is required")
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldName := category.Name
	if oldName == newName {
		return category, nil
	}

	category.Name = newName
	if err := s.categoryRepo.Rename(ctx, category, oldName); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category. A non-empty category is rejected unless force
// is set, in which case member records are left uncategorized.
func (s *CategoryService) Delete(ctx context.Context, id uint, force bool) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.contentRepo.CountByCategory(ctx, category.Name)
	if err != nil {
		return err
	}
	if count > 0 {
		if !force {
			return models.NewValidationError("Category is not empty; pass force=true to clear it from its content")
		}
		if err := s.contentRepo.ReassignCategory(ctx, category.Name, ""); err != nil {
			return err
		}
	}

	return s.categoryRepo.Delete(ctx, id)
}

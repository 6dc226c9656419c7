package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"parish/internal/models"
	"parish/internal/repository"

	"github.com/stretchr/testify/require"
)

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T", err)
	require.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

// contentRepoStub is a stub for repository.ContentRepository.
type contentRepoStub struct {
	createFn          func(context.Context, *models.Content) error
	getByIDFn         func(context.Context, uint) (*models.Content, error)
	listFn            func(context.Context, repository.ContentFilter) ([]*models.Content, error)
	updateFn          func(context.Context, *models.Content) error
	deleteFn          func(context.Context, uint) error
	countByCategoryFn func(context.Context, string) (int64, error)
	reassignFn        func(context.Context, string, string) error
}

func (s *contentRepoStub) Create(ctx context.Context, content *models.Content) error {
	return s.createFn(ctx, content)
}
func (s *contentRepoStub) GetByID(ctx context.Context, id uint) (*models.Content, error) {
	return s.getByIDFn(ctx, id)
}
func (s *contentRepoStub) List(ctx context.Context, filter repository.ContentFilter) ([]*models.Content, error) {
	return s.listFn(ctx, filter)
}
func (s *contentRepoStub) Update(ctx context.Context, content *models.Content) error {
	return s.updateFn(ctx, content)
}
func (s *contentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *contentRepoStub) CountByCategory(ctx context.Context, category string) (int64, error) {
	return s.countByCategoryFn(ctx, category)
}
func (s *contentRepoStub) ReassignCategory(ctx context.Context, oldName, newName string) error {
	return s.reassignFn(ctx, oldName, newName)
}

func noopContentRepo() *contentRepoStub {
	return &contentRepoStub{
		createFn: func(_ context.Context, _ *models.Content) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Content, error) {
			return &models.Content{ID: id}, nil
		},
		listFn: func(_ context.Context, _ repository.ContentFilter) ([]*models.Content, error) {
			return nil, nil
		},
		updateFn:          func(_ context.Context, _ *models.Content) error { return nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
		countByCategoryFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
		reassignFn:        func(_ context.Context, _, _ string) error { return nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn    func(context.Context, *models.Category) error
	getByIDFn   func(context.Context, uint) (*models.Category, error)
	getByNameFn func(context.Context, string) (*models.Category, error)
	listFn      func(context.Context) ([]models.Category, error)
	updateFn    func(context.Context, *models.Category) error
	renameFn    func(context.Context, *models.Category, string) error
	deleteFn    func(context.Context, uint) error
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return s.getByNameFn(ctx, name)
}
func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Rename(ctx context.Context, category *models.Category, oldName string) error {
	return s.renameFn(ctx, category, oldName)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(_ context.Context, _ *models.Category) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "News"}, nil
		},
		getByNameFn: func(_ context.Context, name string) (*models.Category, error) {
			return &models.Category{ID: 1, Name: name}, nil
		},
		listFn:   func(_ context.Context) ([]models.Category, error) { return nil, nil },
		updateFn: func(_ context.Context, _ *models.Category) error { return nil },
		renameFn: func(_ context.Context, _ *models.Category, _ string) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// assetRemoverStub records removals for assertions.
type assetRemoverStub struct {
	removed []string
}

func (s *assetRemoverStub) Remove(_ context.Context, path string) {
	s.removed = append(s.removed, path)
}

func futureTime(d time.Duration) *time.Time {
	t := time.Now().Add(d)
	return &t
}

// Package service holds the business rules between the HTTP handlers and the
// repositories.
package service

import (
	"context"
	"strings"
	"time"

	"parish/internal/config"
	"parish/internal/models"
	"parish/internal/repository"
)

const (
	maxTitleLen   = 300
	maxBodyLen    = 50000
	maxExcerptLen = 500
)

// AssetRemover removes a stored asset by path, best-effort. Satisfied by
// AssetService.
type AssetRemover interface {
	Remove(ctx context.Context, path string)
}

type ContentService struct {
	contentRepo  repository.ContentRepository
	categoryRepo repository.CategoryRepository
	assets       AssetRemover
	cleanup      string
	isAdmin      func(ctx context.Context, userID uint) (bool, error)
}

type CreateContentInput struct {
	AuthorID    uint
	Title       string
	Body        string
	Excerpt     string
	Category    string
	Status      string
	PublishedAt *time.Time
	ImageURL    string
	ImagePath   string
}

// UpdateContentInput carries a partial update; nil fields are left untouched.
type UpdateContentInput struct {
	UserID      uint
	ContentID   uint
	Title       *string
	Body        *string
	Excerpt     *string
	Category    *string
	Status      *string
	PublishedAt *time.Time
	ClearDate   bool
	ImageURL    *string
	ImagePath   *string
}

type ListContentInput struct {
	Status     string
	TitleQuery string
	Category   string
	Limit      int
	Offset     int
}

func NewContentService(
	contentRepo repository.ContentRepository,
	categoryRepo repository.CategoryRepository,
	assets AssetRemover,
	cleanupPolicy string,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ContentService {
	if cleanupPolicy == "" {
		cleanupPolicy = config.AssetCleanupRetain
	}
	return &ContentService{
		contentRepo:  contentRepo,
		categoryRepo: categoryRepo,
		assets:       assets,
		cleanup:      cleanupPolicy,
		isAdmin:      isAdmin,
	}
}

func (s *ContentService) Create(ctx context.Context, in CreateContentInput) (*models.Content, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Body) > maxBodyLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if len(in.Excerpt) > maxExcerptLen {
		return nil, models.NewValidationError("Excerpt too long (max 500 characters)")
	}

	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !models.ValidStatus(status) {
		return nil, models.NewValidationError("Invalid status")
	}
	if err := s.checkSchedule(status, in.PublishedAt); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, in.Category); err != nil {
		return nil, err
	}

	content := &models.Content{
		Title:       in.Title,
		Body:        in.Body,
		Excerpt:     in.Excerpt,
		Category:    in.Category,
		Status:      status,
		PublishedAt: in.PublishedAt,
		ImageURL:    in.ImageURL,
		ImagePath:   in.ImagePath,
		AuthorID:    in.AuthorID,
	}
	if err := s.contentRepo.Create(ctx, content); err != nil {
		return nil, err
	}
	return s.contentRepo.GetByID(ctx, content.ID)
}

func (s *ContentService) Get(ctx context.Context, id uint) (*models.Content, error) {
	return s.contentRepo.GetByID(ctx, id)
}

func (s *ContentService) List(ctx context.Context, in ListContentInput) ([]*models.Content, error) {
	if in.Status != "" && !models.ValidStatus(in.Status) {
		return nil, models.NewValidationError("Invalid status filter")
	}
	return s.contentRepo.List(ctx, repository.ContentFilter{
		Status:     in.Status,
		TitleQuery: in.TitleQuery,
		Category:   in.Category,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
}

// ListPublic returns the records visible on the public site: published, or
// scheduled with a publish date that has passed.
func (s *ContentService) ListPublic(ctx context.Context, category string, limit, offset int) ([]*models.Content, error) {
	return s.contentRepo.List(ctx, repository.ContentFilter{
		Category:   category,
		PublicOnly: true,
		VisibleAt:  time.Now(),
		Limit:      limit,
		Offset:     offset,
	})
}

func (s *ContentService) Update(ctx context.Context, in UpdateContentInput) (*models.Content, error) {
	content, err := s.contentRepo.GetByID(ctx, in.ContentID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, content, in.UserID, "update"); err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, models.NewValidationError("Title is required")
		}
		if len(*in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		content.Title = *in.Title
	}
	if in.Body != nil {
		if strings.TrimSpace(*in.Body) == "" {
			return nil, models.NewValidationError("Content is required")
		}
		if len(*in.Body) > maxBodyLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		content.Body = *in.Body
	}
	if in.Excerpt != nil {
		if len(*in.Excerpt) > maxExcerptLen {
			return nil, models.NewValidationError("Excerpt too long (max 500 characters)")
		}
		content.Excerpt = *in.Excerpt
	}
	if in.Category != nil {
		if err := s.checkCategory(ctx, *in.Category); err != nil {
			return nil, err
		}
		content.Category = *in.Category
	}
	if in.PublishedAt != nil {
		content.PublishedAt = in.PublishedAt
	} else if in.ClearDate {
		content.PublishedAt = nil
	}
	if in.Status != nil {
		if !models.ValidStatus(*in.Status) {
			return nil, models.NewValidationError("Invalid status")
		}
		content.Status = *in.Status
	}
	// A transition into scheduled must carry a date; silently accepting it
	// was a known gap in the old dashboard.
	if err := s.checkSchedule(content.Status, content.PublishedAt); err != nil {
		return nil, err
	}
	if in.ImageURL != nil {
		content.ImageURL = *in.ImageURL
	}
	if in.ImagePath != nil {
		content.ImagePath = *in.ImagePath
	}

	if err := s.contentRepo.Update(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

// Delete removes a content record. Asset cleanup follows the configured
// policy: "retain" keeps the stored image (the original dashboard's
// contract), "cascade" removes it best-effort after the row is gone.
func (s *ContentService) Delete(ctx context.Context, userID, contentID uint) error {
	content, err := s.contentRepo.GetByID(ctx, contentID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, content, userID, "delete"); err != nil {
		return err
	}

	if err := s.contentRepo.Delete(ctx, contentID); err != nil {
		return err
	}

	if s.cleanup == config.AssetCleanupCascade && content.ImagePath != "" && s.assets != nil {
		s.assets.Remove(ctx, content.ImagePath)
	}
	return nil
}

func (s *ContentService) authorize(ctx context.Context, content *models.Content, userID uint, verb string) error {
	if content.AuthorID == userID {
		return nil
	}
	if s.isAdmin != nil {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if admin {
			return nil
		}
	}
	return models.NewUnauthorizedError("You can only " + verb + " your own content")
}

// checkSchedule enforces the status/date invariant: scheduled requires a
// future publish date; the date alone does not imply scheduling.
func (s *ContentService) checkSchedule(status string, publishedAt *time.Time) error {
	if status != models.StatusScheduled {
		return nil
	}
	if publishedAt == nil {
		return models.NewValidationError("Scheduled content requires a publish date")
	}
	if !publishedAt.After(time.Now()) {
		return models.NewValidationError("Scheduled publish date must be in the future")
	}
	return nil
}

// checkCategory validates the name against the category table. Empty means
// uncategorized and is always allowed.
func (s *ContentService) checkCategory(ctx context.Context, name string) error {
	if name == "" || s.categoryRepo == nil {
		return nil
	}
	category, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if category == nil {
		return models.NewValidationError("Unknown category: " + name)
	}
	return nil
}

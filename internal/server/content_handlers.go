package server

import (
	"time"

	"parish/internal/models"
	"parish/internal/service"

	"github.com/gofiber/fiber/v2"
)

type contentRequest struct {
	Title       *string    `json:"title"`
	Body        *string    `json:"content"`
	Excerpt     *string    `json:"excerpt"`
	Category    *string    `json:"category"`
	Status      *string    `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	ClearDate   bool       `json:"clear_date"`
	ImageURL    *string    `json:"image_url"`
	ImagePath   *string    `json:"image_path"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CreateContent handles POST /api/contents
// @Summary Create a content record
// @Tags contents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Content
// @Failure 400 {object} models.ErrorResponse
// @Router /contents [post]
func (s *Server) CreateContent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req contentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	content, err := s.contentService.Create(c.Context(), service.CreateContentInput{
		AuthorID:    userID,
		Title:       deref(req.Title),
		Body:        deref(req.Body),
		Excerpt:     deref(req.Excerpt),
		Category:    deref(req.Category),
		Status:      deref(req.Status),
		PublishedAt: req.PublishedAt,
		ImageURL:    deref(req.ImageURL),
		ImagePath:   deref(req.ImagePath),
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(content)
}

// ListContents handles GET /api/contents. Status, title search and category
// filters are pushed down to the database along with pagination.
func (s *Server) ListContents(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	contents, err := s.contentService.List(c.Context(), service.ListContentInput{
		Status:     c.Query("status"),
		TitleQuery: c.Query("q"),
		Category:   c.Query("category"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"contents": contents,
		"limit":    page.Limit,
		"offset":   page.Offset,
	})
}

// GetContent handles GET /api/contents/:id
func (s *Server) GetContent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	content, err := s.contentService.Get(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(content)
}

// UpdateContent handles PUT /api/contents/:id. Absent fields are left
// untouched; only the author or an admin may update.
func (s *Server) UpdateContent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req contentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	content, err := s.contentService.Update(c.Context(), service.UpdateContentInput{
		UserID:      userID,
		ContentID:   id,
		Title:       req.Title,
		Body:        req.Body,
		Excerpt:     req.Excerpt,
		Category:    req.Category,
		Status:      req.Status,
		PublishedAt: req.PublishedAt,
		ClearDate:   req.ClearDate,
		ImageURL:    req.ImageURL,
		ImagePath:   req.ImagePath,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(content)
}

// DeleteContent handles DELETE /api/contents/:id
func (s *Server) DeleteContent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.contentService.Delete(c.Context(), userID, id); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ReplaceContentImage handles PUT /api/contents/:id/image. The new image is
// uploaded before the old object is touched, and the record swap happens
// before the old object is removed; a failed swap discards the fresh upload
// so no orphan is left behind.
func (s *Server) ReplaceContentImage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	content, err := s.contentService.Get(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	in, err := s.formImage(c)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	var updated *models.Content
	_, err = s.assetService.Replace(c.Context(), content.ImagePath, *in, func(asset *service.UploadedAsset) error {
		var swapErr error
		updated, swapErr = s.contentService.Update(c.Context(), service.UpdateContentInput{
			UserID:    userID,
			ContentID: id,
			ImageURL:  &asset.URL,
			ImagePath: &asset.Path,
		})
		return swapErr
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(updated)
}

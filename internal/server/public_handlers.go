package server

import (
	"parish/internal/cache"
	"parish/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNewsEvents handles GET /api/news-events, the public browse surface.
// Only published records and scheduled records whose publish date has passed
// are returned. The unfiltered first page is the hot path for the site's
// landing view, so it sits behind a short-TTL cache.
func (s *Server) GetNewsEvents(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	category := c.Query("category")

	var contents []*models.Content

	if category == "" && page.Offset == 0 && page.Limit == 20 {
		err := cache.Aside(c.Context(), cache.PublicListKey, &contents, cache.PublicListTTL, func() error {
			var fetchErr error
			contents, fetchErr = s.contentService.ListPublic(c.Context(), "", page.Limit, 0)
			return fetchErr
		})
		if err != nil {
			return models.RespondWithError(c, mapServiceError(err), err)
		}
	} else {
		var err error
		contents, err = s.contentService.ListPublic(c.Context(), category, page.Limit, page.Offset)
		if err != nil {
			return models.RespondWithError(c, mapServiceError(err), err)
		}
	}

	return c.JSON(fiber.Map{"posts": contents})
}

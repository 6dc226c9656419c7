package server

import (
	"io"

	"parish/internal/models"
	"parish/internal/service"

	"github.com/gofiber/fiber/v2"
)

// formImage reads the "image" multipart field into an upload input.
func (s *Server) formImage(c *fiber.Ctx) (*service.UploadAssetInput, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, models.NewValidationError("No file uploaded")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &service.UploadAssetInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     data,
	}, nil
}

// UploadAsset handles POST /api/assets
// @Summary Upload an image asset
// @Tags assets
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} service.UploadedAsset
// @Failure 400 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Router /assets [post]
func (s *Server) UploadAsset(c *fiber.Ctx) error {
	in, err := s.formImage(c)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	uploaded, err := s.assetService.Upload(c.Context(), *in)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(uploaded)
}

// RemoveAsset handles DELETE /api/assets/*. Removal is best-effort: the
// handler reports success whether or not the object was still present.
func (s *Server) RemoveAsset(c *fiber.Ctx) error {
	assetPath := c.Params("*")
	if assetPath == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Asset path is required"))
	}

	s.assetService.Remove(c.Context(), assetPath)
	return c.JSON(fiber.Map{"success": true})
}

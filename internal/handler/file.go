package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/HapaxPablo/online-cinema-server/internal/storage"
)

type FileHandler struct {
	files *storage.FileService
}

func NewFileHandler(files *storage.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// Upload godoc
// @Summary Upload files
// @Description Save uploaded files into the given folder and return their public URLs.
// @Tags files
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param folder query string false "Target folder" default(default)
// @Success 200 {array} storage.FileResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/files [post]
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid multipart form"})
	}

	var files []*multipart.FileHeader
	for _, headers := range form.File {
		files = append(files, headers...)
	}
	if len(files) == 0 {
		return c.Status(400).JSON(ErrorResponse{Error: "no files provided"})
	}

	saved, err := h.files.Save(files, c.Query("folder", "default"))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to save files"})
	}
	return c.JSON(saved)
}

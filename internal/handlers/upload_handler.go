package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"careerboost/cv-analyzer/internal/models"
	"careerboost/cv-analyzer/internal/repositories"
	"careerboost/cv-analyzer/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /upload. The stored document can later be
// analyzed through POST /analyses.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	cvFile, err := c.FormFile("cvFile")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "No file uploaded.", "")
	}

	if cvFile.Size > h.maxFileSize {
		return errorResponse(c, fiber.StatusBadRequest,
			fmt.Sprintf("CV file too large. Max size: %d bytes", h.maxFileSize), "")
	}

	mimeType, err := services.DetectMimeType(cvFile.Filename, cvFile.Header.Get("Content-Type"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Unsupported file format", services.KindUnsupportedFormat)
	}

	filename, filePath, err := h.storageService.SaveFile(cvFile, mimeType)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError,
			fmt.Sprintf("failed to save CV file: %v", err), "")
	}

	doc := models.Document{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFileName: cvFile.Filename,
		MimeType:         mimeType,
		SizeBytes:        cvFile.Size,
		FilePath:         filePath,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		_ = h.storageService.DeleteFile(filename)
		return errorResponse(c, fiber.StatusInternalServerError, "failed to save document record", "")
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		MimeType:     doc.MimeType,
		SizeBytes:    doc.SizeBytes,
	})
}

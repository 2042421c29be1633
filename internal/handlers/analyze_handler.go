package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"careerboost/cv-analyzer/internal/feedback"
	"careerboost/cv-analyzer/internal/services"
)

type AnalyzeHandler struct {
	analyzer    services.AnalyzerService
	defaultMode feedback.Mode
	maxFileSize int64
}

func NewAnalyzeHandler(
	analyzer services.AnalyzerService,
	defaultMode feedback.Mode,
	maxFileSize int64,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:    analyzer,
		defaultMode: defaultMode,
		maxFileSize: maxFileSize,
	}
}

// HandleAnalyzeCV handles POST /analyze-cv and runs the whole pipeline
// within the request.
func (h *AnalyzeHandler) HandleAnalyzeCV(c *fiber.Ctx) error {
	file, err := c.FormFile("cvFile")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "No file uploaded.", "")
	}

	if file.Size > h.maxFileSize {
		return errorResponse(c, fiber.StatusBadRequest,
			fmt.Sprintf("CV file too large. Max size: %d bytes", h.maxFileSize), "")
	}

	mode, err := feedback.ParseMode(c.FormValue("mode"), h.defaultMode)
	if err != nil {
		return respondParseError(c, err)
	}

	mimeType, err := services.DetectMimeType(file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Unsupported file format", services.KindUnsupportedFormat)
	}

	src, err := file.Open()
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Error with uploaded file", "")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Error with uploaded file", "")
	}

	outcome, err := h.analyzer.Analyze(c.UserContext(), services.AnalyzeInput{
		Data:     data,
		Filename: file.Filename,
		MimeType: mimeType,
		Size:     file.Size,
		Mode:     mode,
	})
	if err != nil {
		return respondAnalysisError(c, err)
	}

	return c.JSON(outcome.Feedback)
}

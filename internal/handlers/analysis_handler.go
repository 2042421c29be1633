package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"careerboost/cv-analyzer/internal/feedback"
	"careerboost/cv-analyzer/internal/models"
	"careerboost/cv-analyzer/internal/repositories"
	"careerboost/cv-analyzer/internal/services"
)

type AnalysisHandler struct {
	analysisRepo repositories.AnalysisRepository
	docRepo      repositories.DocumentRepository
	worker       services.Worker
	validate     *validator.Validate
	defaultMode  feedback.Mode
}

func NewAnalysisHandler(
	analysisRepo repositories.AnalysisRepository,
	docRepo repositories.DocumentRepository,
	worker services.Worker,
	defaultMode feedback.Mode,
) *AnalysisHandler {
	return &AnalysisHandler{
		analysisRepo: analysisRepo,
		docRepo:      docRepo,
		worker:       worker,
		validate:     validator.New(),
		defaultMode:  defaultMode,
	}
}

// HandleCreate handles POST /analyses
func (h *AnalysisHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request payload", "")
	}

	if err := h.validate.Struct(req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, validationMessage(err), "")
	}

	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid document_id format", "")
	}

	mode, err := feedback.ParseMode(req.Mode, h.defaultMode)
	if err != nil {
		return respondParseError(c, err)
	}

	if _, err := h.docRepo.FindByID(docID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Document not found", "")
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to look up document", "")
	}

	analysis := &models.Analysis{
		ID:         uuid.New(),
		DocumentID: docID,
		Mode:       string(mode),
		Status:     models.StatusQueued,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := h.analysisRepo.Create(analysis); err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create analysis job", "")
	}

	h.worker.EnqueueJob(analysis.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.AnalyzeResponse{
		ID:     analysis.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// HandleGet handles GET /analyses/:id. With ?format=markdown a completed
// job is rendered as a markdown report instead of JSON.
func (h *AnalysisHandler) HandleGet(c *fiber.Ctx) error {
	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid analysis ID format", "")
	}

	analysis, err := h.analysisRepo.FindByID(analysisID)
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, "Analysis not found", "")
	}

	response := models.ResultResponse{
		ID:     analysis.ID.String(),
		Status: string(analysis.Status),
		Mode:   analysis.Mode,
	}

	if analysis.Status == models.StatusCompleted && analysis.Feedback != nil {
		var fb feedback.Feedback
		if err := json.Unmarshal([]byte(*analysis.Feedback), &fb); err != nil {
			log.Printf("❌ Stored feedback for %s is unreadable: %v\n", analysis.ID, err)
			return errorResponse(c, fiber.StatusInternalServerError, "Stored feedback is unreadable", "")
		}
		response.Result = &fb

		if c.Query("format") == "markdown" {
			c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
			return c.SendString(feedback.RenderMarkdown(&fb))
		}
	}

	if analysis.Status == models.StatusFailed {
		response.ErrorKind = analysis.ErrorKind
		response.ErrorMessage = analysis.ErrorMessage
	}

	return c.JSON(response)
}

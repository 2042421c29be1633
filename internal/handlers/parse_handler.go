package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"careerboost/cv-analyzer/internal/feedback"
	"careerboost/cv-analyzer/internal/models"
)

// ParseHandler exposes the feedback parsers directly, for text that was
// produced elsewhere.
type ParseHandler struct {
	validate    *validator.Validate
	defaultMode feedback.Mode
}

func NewParseHandler(defaultMode feedback.Mode) *ParseHandler {
	return &ParseHandler{
		validate:    validator.New(),
		defaultMode: defaultMode,
	}
}

// HandleParse handles POST /feedback/parse
func (h *ParseHandler) HandleParse(c *fiber.Ctx) error {
	var req models.ParseRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request payload", "")
	}

	if err := h.validate.Struct(req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, validationMessage(err), "")
	}

	mode, err := feedback.ParseMode(req.Mode, h.defaultMode)
	if err != nil {
		return respondParseError(c, err)
	}

	fb, err := feedback.Parse(req.Text, mode)
	if err != nil {
		return respondParseError(c, err)
	}
	if err := fb.Validate(); err != nil {
		return respondParseError(c, err)
	}

	return c.JSON(fb)
}

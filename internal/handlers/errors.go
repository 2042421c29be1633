package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"careerboost/cv-analyzer/internal/feedback"
	"careerboost/cv-analyzer/internal/services"
)

func errorResponse(c *fiber.Ctx, status int, message, kind string) error {
	body := fiber.Map{"error": message}
	if kind != "" {
		body["kind"] = kind
	}
	return c.Status(status).JSON(body)
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}

// parseErrorStatus maps feedback failures: unusable model output is 422,
// an unknown mode is the caller's fault.
func parseErrorStatus(kind feedback.ErrorKind) int {
	if kind == feedback.KindUnknownMode {
		return fiber.StatusBadRequest
	}
	return fiber.StatusUnprocessableEntity
}

func respondParseError(c *fiber.Ctx, err error) error {
	var pe *feedback.ParseError
	if errors.As(err, &pe) {
		return errorResponse(c, parseErrorStatus(pe.Kind), pe.Error(), string(pe.Kind))
	}
	return errorResponse(c, fiber.StatusInternalServerError, err.Error(), "")
}

func respondAnalysisError(c *fiber.Ctx, err error) error {
	var ae *services.AnalysisError
	if !errors.As(err, &ae) {
		return errorResponse(c, fiber.StatusInternalServerError, "An error occurred during CV analysis.", "")
	}

	switch {
	case ae.IsParseFailure():
		return respondParseError(c, ae.Err)
	case ae.Kind == services.KindUnsupportedFormat:
		return errorResponse(c, fiber.StatusBadRequest, "Unsupported file format", ae.Kind)
	case ae.Kind == services.KindExtractionFailed:
		return errorResponse(c, fiber.StatusBadRequest, "Could not read text from the uploaded file", ae.Kind)
	case ae.Kind == services.KindAIServiceFailed:
		return errorResponse(c, fiber.StatusBadGateway, "AI service failed to analyze the CV", ae.Kind)
	default:
		return errorResponse(c, fiber.StatusInternalServerError, "An error occurred during CV analysis.", ae.Kind)
	}
}

package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/webotyou/backend/internal/analyzer"
	"github.com/webotyou/backend/internal/storage/models"
	"github.com/webotyou/backend/internal/validation"
	"github.com/webotyou/backend/pkg/logger"
)

type analyzeService interface {
	Analyze(ctx context.Context, url string) (*models.BusinessProfile, error)
}

type AnalyzeHandler struct {
	analyzer analyzeService
}

func NewAnalyzeHandler(analyzer analyzeService) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
	}
}

type analyzeRequest struct {
	URL string `json:"url" validate:"required,http_url"`
}

func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req analyzeRequest

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if fieldErrors := validation.Check(req); fieldErrors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation error",
			"fields": fieldErrors,
		})
	}

	profile, err := h.analyzer.Analyze(c.Context(), req.URL)
	if err != nil {
		var invalidURL *analyzer.InvalidURLError
		if errors.As(err, &invalidURL) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Validation error",
				"fields": []validation.FieldError{{Field: "url", Message: "must be a valid URL"}},
			})
		}

		logger.Error("Failed to analyze website", zap.String("url", req.URL), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to analyze website",
		})
	}

	return c.JSON(profile)
}

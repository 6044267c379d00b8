package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webotyou/backend/internal/metrics"
	"github.com/webotyou/backend/internal/storage/models"
	"github.com/webotyou/backend/internal/validation"
	"github.com/webotyou/backend/pkg/logger"
)

type inquiryStore interface {
	InsertContactInquiry(inquiry *models.ContactInquiry) error
}

type ContactHandler struct {
	store inquiryStore
}

func NewContactHandler(store inquiryStore) *ContactHandler {
	return &ContactHandler{
		store: store,
	}
}

type contactRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	WebsiteURL string `json:"website_url" validate:"omitempty,http_url"`
	Message    string `json:"message" validate:"required,min=10"`
}

func (h *ContactHandler) HandleContact(c *fiber.Ctx) error {
	var req contactRequest

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

	inquiry := &models.ContactInquiry{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Email:      req.Email,
		WebsiteURL: req.WebsiteURL,
		Message:    req.Message,
		CreatedAt:  time.Now(),
	}

	if err := h.store.InsertContactInquiry(inquiry); err != nil {
		logger.Error("Failed to store contact inquiry", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to submit contact inquiry",
		})
	}

	metrics.ContactInquiriesTotal.Inc()

	return c.JSON(fiber.Map{
		"message": "Contact inquiry submitted successfully",
	})
}

package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/webotyou/backend/internal/chat"
	"github.com/webotyou/backend/internal/validation"
	"github.com/webotyou/backend/pkg/logger"
)

type chatService interface {
	HandleMessage(ctx context.Context, req chat.Request) (*chat.Response, error)
}

type ChatHandler struct {
	chat chatService
}

func NewChatHandler(chat chatService) *ChatHandler {
	return &ChatHandler{
		chat: chat,
	}
}

type chatRequest struct {
	Message       string `json:"message" validate:"required"`
	SessionID     string `json:"session_id" validate:"required"`
	WebsiteDomain string `json:"website_domain" validate:"omitempty,hostname"`
}

func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req chatRequest

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

	resp, err := h.chat.HandleMessage(c.Context(), chat.Request{
		Message:       req.Message,
		SessionID:     req.SessionID,
		WebsiteDomain: req.WebsiteDomain,
	})
	if err != nil {
		logger.Error("Failed to process chat message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process chat message",
		})
	}

	return c.JSON(fiber.Map{
		"message":    resp.Message,
		"session_id": resp.SessionID,
	})
}

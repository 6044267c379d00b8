package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/webotyou/backend/internal/chat"
	"github.com/webotyou/backend/pkg/logger"
)

// WebSocketHandler streams chat replies word-by-word for the demo widget.
type WebSocketHandler struct {
	chat chatService
}

func NewWebSocketHandler(chat chatService) *WebSocketHandler {
	return &WebSocketHandler{
		chat: chat,
	}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type          string `json:"type"`
			Message       string `json:"message"`
			SessionID     string `json:"session_id"`
			WebsiteDomain string `json:"website_domain"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "chat" {
			continue
		}

		if msg.Message == "" || msg.SessionID == "" {
			h.sendError(c, "message and session_id are required")
			continue
		}

		err = h.streamReply(c, msg.Message, msg.SessionID, msg.WebsiteDomain)
		if err != nil {
			logger.Error("Failed to stream chat reply", zap.Error(err))
			h.sendError(c, "Failed to process chat message")
		}
	}
}

func (h *WebSocketHandler) streamReply(c *websocket.Conn, message, sessionID, domain string) error {
	resp, err := h.chat.HandleMessage(context.Background(), chat.Request{
		Message:       message,
		SessionID:     sessionID,
		WebsiteDomain: domain,
	})
	if err != nil {
		return err
	}

	words := strings.Fields(resp.Message)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}
		if err := h.sendChunk(c, "chunk", chunk); err != nil {
			return err
		}
		time.Sleep(20 * time.Millisecond)
	}

	return c.WriteJSON(map[string]string{
		"type":       "done",
		"message":    resp.Message,
		"session_id": resp.SessionID,
	})
}

func (h *WebSocketHandler) sendChunk(c *websocket.Conn, chunkType, content string) error {
	return c.WriteJSON(map[string]string{
		"type":    chunkType,
		"content": content,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, message string) {
	err := c.WriteJSON(map[string]string{
		"type":  "error",
		"error": message,
	})
	if err != nil {
		logger.Error("Failed to send WebSocket error", zap.Error(err))
	}
}

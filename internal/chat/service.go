package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webotyou/backend/internal/metrics"
	"github.com/webotyou/backend/internal/storage/models"
	"github.com/webotyou/backend/pkg/logger"
)

type replyClient interface {
	ChatReply(ctx context.Context, message string, profile *models.BusinessProfile, history []string) (string, error)
}

type chatStore interface {
	InsertChatMessage(msg *models.ChatMessage) error
	GetChatHistory(sessionID string, limit int) ([]models.ChatMessage, error)
	GetLatestAnalysisByURL(url string) (*models.WebsiteAnalysis, error)
}

type Request struct {
	Message       string
	SessionID     string
	WebsiteDomain string
}

type Response struct {
	Message   string
	SessionID string
	// Source records which path answered: model, fallback, or gated.
	Source string
}

// Service handles one chat turn: resolve the grounding profile, load the
// trailing history window, generate (or fall back to) a reply, and append
// both turns to the session log.
type Service struct {
	db            chatStore
	llm           replyClient
	historyLimit  int
	historyWindow int
}

func NewService(db chatStore, llm replyClient, historyLimit, historyWindow int) *Service {
	return &Service{
		db:            db,
		llm:           llm,
		historyLimit:  historyLimit,
		historyWindow: historyWindow,
	}
}

func (s *Service) HandleMessage(ctx context.Context, req Request) (*Response, error) {
	profile := s.resolveProfile(req.WebsiteDomain)

	// Prior turns only: the incoming message is recorded after the window is
	// captured, so the grounding prompt never repeats the current question.
	history, err := s.db.GetChatHistory(req.SessionID, s.historyLimit)
	if err != nil {
		logger.Warn("Failed to load chat history", zap.String("session_id", req.SessionID), zap.Error(err))
	}

	s.record(req.SessionID, req.Message, false, req.WebsiteDomain)

	reply, source := s.respond(ctx, req.Message, profile, HistoryWindow(history, s.historyWindow))

	s.record(req.SessionID, reply, true, req.WebsiteDomain)

	metrics.ChatRepliesTotal.WithLabelValues(source).Inc()

	logger.Info("Chat turn completed",
		zap.String("session_id", req.SessionID),
		zap.String("source", source),
		zap.Int("history_turns", len(history)),
	)

	return &Response{
		Message:   reply,
		SessionID: req.SessionID,
		Source:    source,
	}, nil
}

func (s *Service) respond(ctx context.Context, message string, profile *models.BusinessProfile, window []string) (string, string) {
	if profile == nil {
		return NoProfileReply, "gated"
	}

	reply, err := s.llm.ChatReply(ctx, message, profile, window)
	if err != nil {
		logger.Warn("Model reply failed, using rule-based fallback", zap.Error(err))
		return FallbackReply(message, profile), "fallback"
	}

	if strings.TrimSpace(reply) == "" {
		return EmptyCompletionReply, "model"
	}

	return reply, "model"
}

// resolveProfile probes stored analyses for the domain, preferring https.
func (s *Service) resolveProfile(domain string) *models.BusinessProfile {
	if domain == "" {
		return nil
	}

	for _, scheme := range []string{"https://", "http://"} {
		analysis, err := s.db.GetLatestAnalysisByURL(scheme + domain)
		if err != nil {
			logger.Warn("Failed to look up analysis", zap.String("domain", domain), zap.Error(err))
			continue
		}
		if analysis != nil {
			return analysis.Profile
		}
	}

	return nil
}

func (s *Service) record(sessionID, message string, isBot bool, domain string) {
	msg := &models.ChatMessage{
		ID:            uuid.New().String(),
		SessionID:     sessionID,
		Message:       message,
		IsBot:         isBot,
		WebsiteDomain: domain,
		CreatedAt:     time.Now(),
	}

	if err := s.db.InsertChatMessage(msg); err != nil {
		logger.Error("Failed to record chat message",
			zap.String("session_id", sessionID),
			zap.Bool("is_bot", isBot),
			zap.Error(err),
		)
	}
}

// HistoryWindow formats the trailing window turns as prompt lines,
// oldest-first.
func HistoryWindow(history []models.ChatMessage, window int) []string {
	if len(history) > window {
		history = history[len(history)-window:]
	}

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		speaker := "User"
		if msg.IsBot {
			speaker = "Bot"
		}
		lines = append(lines, speaker+": "+msg.Message)
	}

	return lines
}

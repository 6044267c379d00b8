package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/webotyou/backend/internal/storage/models"
	"github.com/webotyou/backend/pkg/circuitbreaker"
	"github.com/webotyou/backend/pkg/logger"
)

var (
	// ErrModelUnavailable covers transport and API failures.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrMalformedOutput covers completions that cannot be parsed into the
	// requested shape.
	ErrMalformedOutput = errors.New("malformed model output")
)

type Client struct {
	client            *openai.Client
	model             string
	temperature       float32
	analysisMaxTokens int
	chatMaxTokens     int
	timeout           time.Duration
	cb                *circuitbreaker.CircuitBreaker
}

type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	JSONResponse bool
}

type CompletionResponse struct {
	Content string
	Usage   Usage
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

func NewClient(apiKey, model string, temperature float32, analysisMaxTokens, chatMaxTokens, timeoutSec int) *Client {
	client := openai.NewClient(apiKey)

	cb := circuitbreaker.New("llm", circuitbreaker.Config{
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	logger.Info("LLM client initialized", zap.String("model", model))

	return &Client{
		client:            client,
		model:             model,
		temperature:       temperature,
		analysisMaxTokens: analysisMaxTokens,
		chatMaxTokens:     chatMaxTokens,
		timeout:           time.Duration(timeoutSec) * time.Second,
		cb:                cb,
	}
}

func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: req.UserPrompt,
		},
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   req.MaxTokens,
	}

	if req.JSONResponse {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var result *CompletionResponse

	err := c.cb.Execute(ctx, func() error {
		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return fmt.Errorf("failed to create completion: %w", err)
		}

		logger.Debug("LLM completion generated",
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		)

		result = &CompletionResponse{
			Content: resp.Choices[0].Message.Content,
			Usage: Usage{
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
				TotalTokens:      resp.Usage.TotalTokens,
			},
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	return result, nil
}

// AnalyzeWebsite summarizes extracted page text into a BusinessProfile. The
// returned profile carries whatever the model produced; missing fields stay
// zero-valued and the caller owns the domain invariant.
func (c *Client) AnalyzeWebsite(ctx context.Context, content, title, url string) (*models.BusinessProfile, error) {
	systemPrompt := "You are a website analyst that extracts business information from website content. Always respond with valid JSON only."

	userPrompt := fmt.Sprintf(`Analyze the following website content and provide a JSON response with business information:

Website URL: %s
Page Title: %s
Website Content: %s

Please analyze this website and respond with JSON in this exact format:
{
  "domain": "example.com",
  "business_type": "Technology Company / E-commerce / Service Provider / etc.",
  "services": ["service1", "service2", "service3"],
  "description": "Brief description of the business",
  "contact_info": {
    "email": "email if found",
    "phone": "phone if found",
    "address": "address if found"
  },
  "key_features": ["feature1", "feature2", "feature3"]
}

Focus on extracting factual information from the website content. If certain information is not available, use null for missing fields.`, url, title, content)

	resp, err := c.Complete(ctx, CompletionRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    c.analysisMaxTokens,
		JSONResponse: true,
	})
	if err != nil {
		return nil, err
	}

	var profile models.BusinessProfile
	if err := json.Unmarshal([]byte(resp.Content), &profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	logger.Info("Website analyzed",
		zap.String("url", url),
		zap.String("business_type", profile.BusinessType),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return &profile, nil
}

// ChatReply answers a user message grounded in an analyzed profile and the
// trailing conversation window.
func (c *Client) ChatReply(ctx context.Context, message string, profile *models.BusinessProfile, history []string) (string, error) {
	systemPrompt := "You are a knowledgeable AI assistant helping users learn about websites and businesses. Provide accurate, helpful responses based on the website analysis data provided."

	contactJSON, _ := json.Marshal(profile.ContactInfo)

	userPrompt := fmt.Sprintf(`You are a helpful AI assistant representing a website analysis chatbot. You have analyzed the following website:

Website: %s
Business Type: %s
Services: %s
Description: %s
Contact Info: %s
Key Features: %s

Previous conversation context:
%s

User's current question: %s

Please provide a helpful, informative response about this website/business. Keep responses concise but informative. If the user asks about something not covered in the website data, be honest about limitations while still being helpful.`,
		profile.Domain,
		profile.BusinessType,
		joinOrUnknown(profile.Services),
		orDefault(profile.Description, "No description available"),
		string(contactJSON),
		joinOrUnknown(profile.KeyFeatures),
		strings.Join(history, "\n"),
		message,
	)

	resp, err := c.Complete(ctx, CompletionRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    c.chatMaxTokens,
	})
	if err != nil {
		return "", err
	}

	return resp.Content, nil
}

func joinOrUnknown(items []string) string {
	if len(items) == 0 {
		return "Unknown"
	}
	return strings.Join(items, ", ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"hytech_pos/internal/config"

	openrouter "github.com/revrost/go-openrouter"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("assistant is not configured")

type ToolCall = openrouter.ToolCall

// Client is the register assistant's chat endpoint. A Client built without a
// model or key is valid but disabled.
type Client struct {
	client  *openrouter.Client
	model   string
	logger  *zap.Logger
	enabled bool
}

func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	logger = logger.Named("llm")
	model := strings.TrimSpace(cfg.LLMModel)
	apiKey := strings.TrimSpace(cfg.LLMAPIKey)

	if model == "" || apiKey == "" {
		logger.Debug("assistant disabled",
			zap.Bool("has_model", model != ""),
			zap.Bool("has_api_key", apiKey != ""),
		)
		return &Client{model: model, logger: logger}
	}

	clientCfg := openrouter.DefaultConfig(apiKey)
	if baseURL := strings.TrimSpace(cfg.LLMBaseURL); baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout * 3}

	return &Client{
		client:  openrouter.NewClientWithConfig(*clientCfg),
		model:   model,
		logger:  logger,
		enabled: true,
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

func (c *Client) Chat(ctx context.Context, messages []openrouter.ChatCompletionMessage, tools []openrouter.Tool) (openrouter.ChatCompletionResponse, error) {
	if !c.Enabled() || c.client == nil {
		return openrouter.ChatCompletionResponse{}, ErrNotConfigured
	}

	resp, err := c.client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Tools:    tools,
	})
	if err != nil {
		return openrouter.ChatCompletionResponse{}, err
	}
	if resp.Usage != nil {
		c.logger.Info("llm usage",
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			zap.Int("total_tokens", resp.Usage.TotalTokens),
			zap.Float64("cost", resp.Usage.Cost),
		)
	}
	return resp, nil
}

// Package gateway talks to the upstream model gateway. The relay handler maps
// its sentinel errors onto caller-visible envelopes; everything else stays in
// server logs.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"ecoeats-server/internal/domain/prompt"
)

// FallbackReply is substituted when the gateway answers successfully but the
// completion carries no content.
const FallbackReply = "I apologize, but I couldn't generate a response. Please try again."

var (
	// ErrNotConfigured reports a missing gateway credential. Detected per
	// request, not at startup, so the rest of the service keeps serving.
	ErrNotConfigured = errors.New("ai gateway key is not configured")
	// ErrRateLimited mirrors an upstream 429.
	ErrRateLimited = errors.New("ai gateway rate limited")
	// ErrPaymentRequired mirrors an upstream 402.
	ErrPaymentRequired = errors.New("ai gateway payment required")
)

// Client is a Resty-backed client for the model gateway's OpenAI-compatible
// chat completions endpoint.
type Client struct {
	httpClient *resty.Client
	apiKey     string
	model      string
	logger     zerolog.Logger
}

// NewClient creates a gateway client. An empty apiKey is accepted; requests
// through it fail with ErrNotConfigured.
func NewClient(baseURL, apiKey, model string, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(75 * time.Second),
		apiKey: apiKey,
		model:  model,
		logger: logger,
	}
}

// Complete sends the conversation to the gateway with the EcoEats system
// prompt prepended and returns the assistant's reply text. A successful
// completion with no content yields FallbackReply rather than an error.
func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	if c.apiKey == "" {
		c.logger.Error().Msg("AI gateway key is not configured")
		return "", ErrNotConfigured
	}

	request := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: append([]openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompt.System(),
		}}, messages...),
	}

	var completion openai.ChatCompletionResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(request).
		SetResult(&completion).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("call ai gateway: %w", err)
	}

	if resp.IsError() {
		c.logger.Error().
			Int("status", resp.StatusCode()).
			Str("body", resp.String()).
			Msg("AI gateway error")
		switch resp.StatusCode() {
		case http.StatusTooManyRequests:
			return "", ErrRateLimited
		case http.StatusPaymentRequired:
			return "", ErrPaymentRequired
		}
		return "", fmt.Errorf("ai gateway error: %d", resp.StatusCode())
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return FallbackReply, nil
	}
	return completion.Choices[0].Message.Content, nil
}

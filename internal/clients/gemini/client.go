// Package gemini wraps the Google GenAI SDK behind the ChatClient interface.
package gemini

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/bobmcallan/rebal/internal/common"
	"github.com/bobmcallan/rebal/internal/interfaces"
)

const defaultModel = "gemini-2.0-flash"

// Client calls the Gemini chat-completion API with tool declarations
// attached. Requests are rate limited client-side.
type Client struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
	logger  *common.Logger
}

var _ interfaces.ChatClient = (*Client)(nil)

// Option configures the client.
type Option func(*Client)

// WithModel overrides the default model name.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *common.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the request rate in requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewClient creates a Gemini client. The API key is required.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	c := &Client{
		model:   defaultModel,
		limiter: rate.NewLimiter(rate.Limit(2), 1),
		logger:  common.NewDefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	c.client = client

	c.logger.Info().Str("model", c.model).Msg("Gemini client initialized")
	return c, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends the full conversation plus tool declarations and returns
// the model's reply content. The caller owns history reconstruction; this
// client is stateless across calls.
func (c *Client) Complete(ctx context.Context, system string, history []*genai.Content, tools []*genai.FunctionDeclaration) (*genai.Content, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if len(tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: tools}}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, history, config)
	if err != nil {
		return nil, fmt.Errorf("generate content failed: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, fmt.Errorf("model returned no content")
	}
	return result.Candidates[0].Content, nil
}

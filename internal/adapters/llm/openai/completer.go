package openai

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const DefaultModel = "gpt-4o-mini"

var ErrNoAPIKey = errors.New("openai api key not configured")

// Completer runs single-shot chat completions. The key is looked up on every
// call and a client is built for it, so rotating the key needs no restart.
type Completer struct {
	apiKey  func() string
	model   string
	baseURL string
	limiter *rate.Limiter
}

type Option func(*Completer)

func WithModel(m string) Option {
	return func(c *Completer) {
		if strings.TrimSpace(m) != "" {
			c.model = m
		}
	}
}

func WithBaseURL(u string) Option {
	return func(c *Completer) { c.baseURL = strings.TrimSpace(u) }
}

// WithRateLimit caps outbound requests per second. Zero or less disables it.
func WithRateLimit(rps float64) Option {
	return func(c *Completer) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

func NewCompleter(apiKey func() string, opts ...Option) *Completer {
	c := &Completer{apiKey: apiKey, model: DefaultModel}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Completer) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	key := ""
	if c.apiKey != nil {
		key = strings.TrimSpace(c.apiKey())
	}
	if key == "" {
		return "", ErrNoAPIKey
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	cfg := openai.DefaultConfig(key)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "あなたは日本の住所と郵便番号に詳しいアシスタントです。指示された形式だけで回答してください。",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

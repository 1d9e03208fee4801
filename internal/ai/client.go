// Package ai talks to an OpenAI-compatible chat completion endpoint.
package ai

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	apperrors "knoxshield/pkg/errors"

	"github.com/sashabaranov/go-openai"
)

const (
	maxTokens     = 2048
	DefaultModel  = "gpt-4o-mini"
	retryAttempts = 3
	retryBaseWait = 200 * time.Millisecond
)

// Message is one turn of a conversation.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = openai.ChatMessageRoleSystem
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// Completer produces a reply for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []Message, temperature float32) (string, error)
}

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Client struct {
	*openai.Client
	Model     string
	attempts  int
	baseDelay time.Duration
}

// NewClient returns ErrAIUnavailable when no API key is configured.
func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, apperrors.ErrAIUnavailable
	}
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		Client:    openai.NewClientWithConfig(cfg),
		Model:     model,
		attempts:  retryAttempts,
		baseDelay: retryBaseWait,
	}, nil
}

// IsReasoningModel reports models that take MaxCompletionTokens and a fixed temperature.
func IsReasoningModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

// BuildRequest turns messages into a chat completion request for model.
func BuildRequest(model string, messages []Message, temperature float32) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	if IsReasoningModel(model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
		req.Temperature = temperature
	}
	return req
}

func (c *Client) Complete(ctx context.Context, messages []Message, temperature float32) (string, error) {
	req := BuildRequest(c.Model, messages, temperature)

	var reply string
	err := retry(ctx, c.attempts, c.baseDelay, func() error {
		resp, err := c.CreateChatCompletion(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return errors.New("chat completion returned no choices")
		}
		reply = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

// retry executes fn up to maxAttempts times with jittered exponential backoff.
func retry(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts || ctx.Err() != nil {
			break
		}
		var jitter time.Duration
		if delay > 1 {
			jitter = time.Duration(rand.Int63n(int64(delay / 2)))
		}
		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(delay + jitter):
		}
		delay *= 2
	}
	return lastErr
}

// Package llm is the client for the OpenRouter-compatible chat completion API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Message is one chat message.
type Message struct {
	Role    string
	Content string
}

// Role constants for Message.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Options tune a single completion request.
type Options struct {
	// Model overrides the client's default model when non-empty.
	Model string
	// JSONObject asks the provider to return a single JSON object.
	JSONObject bool
}

// Config configures a Client.
type Config struct {
	Model      string
	FixerModel string
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
}

const (
	defaultTimeout = 10 * time.Minute

	maxTries       = 3
	initialBackoff = 2 * time.Second
)

// Client wraps the completion API with bounded retries and usage tracking.
type Client struct {
	api   *openai.Client
	cfg   Config
	usage Usage
}

// New creates a Client. The API key is required.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("no API key provided")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		api: openai.NewClientWithConfig(clientConfig),
		cfg: cfg,
	}, nil
}

// Model returns the default model name.
func (c *Client) Model() string { return c.cfg.Model }

// Usage returns the token counters accumulated so far.
func (c *Client) Usage() (prompt, completion int) { return c.usage.Totals() }

// ResetUsage zeroes the token counters.
func (c *Client) ResetUsage() { c.usage.Reset() }

// Complete sends the conversation and returns the full response text.
// Rate-limit responses are retried with exponential backoff; other errors are
// retried up to maxTries.
func (c *Client) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	req := c.buildRequest(messages, opts)

	var lastErr error
	backoff := initialBackoff
	for try := 0; try < maxTries; try++ {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		resp, err := c.api.CreateChatCompletion(callCtx, req)
		cancel()

		if err != nil {
			if isRateLimited(err) {
				if werr := wait(ctx, backoff); werr != nil {
					return "", werr
				}
				backoff *= 2
				try-- // rate limits do not count against the retry budget
				continue
			}
			lastErr = err
			continue
		}

		c.usage.Add(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		if len(resp.Choices) == 0 {
			lastErr = errors.New("empty response from model")
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("completion failed after %d tries: %w", maxTries, lastErr)
}

// Stream sends the conversation and delivers response deltas through onDelta
// as they arrive, returning the assembled response text. Falling back to
// Complete on stream setup failure is the caller's choice.
func (c *Client) Stream(ctx context.Context, messages []Message, opts Options, onDelta func(string)) (string, error) {
	req := c.buildRequest(messages, opts)
	req.Stream = true
	req.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	stream, err := c.api.CreateChatCompletionStream(callCtx, req)
	if err != nil {
		return "", fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	var b strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return b.String(), fmt.Errorf("stream: %w", err)
		}
		if chunk.Usage != nil {
			c.usage.Add(chunk.Usage.PromptTokens, chunk.Usage.CompletionTokens)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta != "" {
			b.WriteString(delta)
			if onDelta != nil {
				onDelta(delta)
			}
		}
	}
	return b.String(), nil
}

// FixJSON asks the cheaper fixer model to repair a JSON object. It is the
// single bounded correction step used by the lenient decoder.
func (c *Client) FixJSON(ctx context.Context, raw string) (string, error) {
	const fixPrompt = "You need to fix this JSON object. Please fix it such that it cleanly decodes. Output only the fixed JSON object, no other text."
	return c.Complete(ctx, []Message{
		{Role: RoleSystem, Content: fixPrompt},
		{Role: RoleUser, Content: raw},
	}, Options{Model: c.cfg.FixerModel, JSONObject: true})
}

func (c *Client) buildRequest(messages []Message, opts Options) openai.ChatCompletionRequest {
	model := c.cfg.Model
	if opts.Model != "" {
		model = opts.Model
	}

	converted := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		converted[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: converted,
	}
	if opts.JSONObject {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return req
}

func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

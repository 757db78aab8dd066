package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pathwaysai/pathways/internal/config"
	"github.com/pathwaysai/pathways/internal/httpkit"
)

// Engine is an HTTP client for the completion engine's chat endpoint.
type Engine struct {
	baseURL   string
	model     string
	apiToken  string
	maxTokens int
	logger    *slog.Logger

	// materialized requests get a bounded client; pass-through streaming
	// must not carry an overall timeout.
	httpClient   *http.Client
	streamClient *http.Client
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithHTTPClient overrides both internal clients. Tests use this to
// redirect completions to a fake backend.
func WithHTTPClient(c *http.Client) EngineOption {
	return func(e *Engine) {
		e.httpClient = c
		e.streamClient = c
	}
}

// NewEngine creates a completion engine client from config.
func NewEngine(cfg config.EngineConfig, logger *slog.Logger, opts ...EngineOption) *Engine {
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	e := &Engine{
		baseURL:   cfg.BaseURL,
		model:     cfg.Model,
		apiToken:  cfg.APIToken,
		maxTokens: maxTokens,
		logger:    logger,
		httpClient: httpkit.NewClient(
			httpkit.WithTimeout(5*time.Minute), // large models with long prompts need time
			httpkit.WithRetry(2, 500*time.Millisecond),
			httpkit.WithLogger(logger),
		),
		streamClient: httpkit.NewClient(httpkit.WithTimeout(0)),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// completionRequest is the wire format for the engine's chat endpoint.
type completionRequest struct {
	Model     string    `json:"model,omitempty"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
	Stream    bool      `json:"stream"`
}

// completionResponse is the materialized reply envelope.
type completionResponse struct {
	Response string `json:"response"`
}

// Complete sends a chat completion request and returns the reply text.
func (e *Engine) Complete(ctx context.Context, messages []Message) (string, error) {
	resp, err := e.send(ctx, messages, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var cr completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("engine: decode response: %w", err)
	}
	return cr.Response, nil
}

// Stream sends a chat completion request and returns the raw response
// body without interpreting it.
func (e *Engine) Stream(ctx context.Context, messages []Message) (io.ReadCloser, error) {
	resp, err := e.send(ctx, messages, true)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (e *Engine) send(ctx context.Context, messages []Message, stream bool) (*http.Response, error) {
	req := completionRequest{
		Model:     e.model,
		Messages:  messages,
		MaxTokens: e.maxTokens,
		Stream:    stream,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("engine: marshal request: %w", err)
	}

	e.logger.Log(ctx, config.LevelTrace, "engine request", "body", string(jsonData))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/chat", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("engine: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.apiToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.apiToken)
	}

	client := e.httpClient
	if stream {
		client = e.streamClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("engine: request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body := httpkit.ReadErrorBody(resp.Body, 512)
		return nil, fmt.Errorf("engine: HTTP %d: %s", resp.StatusCode, body)
	}

	return resp, nil
}

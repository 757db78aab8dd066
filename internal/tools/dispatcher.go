package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pathwaysai/pathways/internal/config"
	"github.com/pathwaysai/pathways/internal/httpkit"
)

// Dispatcher executes tool-call directives against the lookup backend.
// It holds no per-request state; one Dispatcher serves all requests.
type Dispatcher struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithHTTPClient overrides the backend client. Tests use this to point
// tool calls at a fake backend.
func WithHTTPClient(c *http.Client) DispatcherOption {
	return func(d *Dispatcher) { d.client = c }
}

// NewDispatcher creates a dispatcher for the configured backend base URL.
func NewDispatcher(cfg config.ToolsConfig, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	d := &Dispatcher{
		baseURL: cfg.BaseURL,
		client: httpkit.NewClient(
			httpkit.WithTimeout(timeout),
			httpkit.WithRetry(2, 250*time.Millisecond),
			httpkit.WithLogger(logger),
		),
		logger: logger,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch executes one directive and returns its text payload. It never
// returns an error: unknown and phantom tools resolve to an "unknown tool"
// payload, and backend failures become an error payload attributed to the
// tool's display name. The loop feeds whatever comes back to the model.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, params map[string]any) string {
	entry := lookup(name)
	if entry == nil || entry.Phantom {
		// Phantom tools take the same path as unrecognized names: the
		// deny-list check runs before any dispatch, however the
		// directive was spelled.
		d.logger.Debug("tool not dispatchable", "tool", name)
		return fmt.Sprintf("Unknown tool: %s", name)
	}

	var payload string
	var err error
	switch name {
	case "check_transfer_requirements":
		payload, err = d.postJSON(ctx, "/transfer-requirements", params)
	case "search_universities":
		payload, err = d.getQuery(ctx, "/universities/search", params)
	case "get_application_deadlines":
		payload, err = d.getQuery(ctx, "/deadlines", params)
	case "get_tuition_info":
		payload, err = d.getQuery(ctx, "/tuition", params)
	default:
		// Catalog entries and this dispatch table must stay in sync;
		// an entry with no branch is treated as unknown.
		return fmt.Sprintf("Unknown tool: %s", name)
	}

	if err != nil {
		d.logger.Warn("tool call failed", "tool", name, "error", err)
		return fmt.Sprintf("[%s] Error: %s", entry.DisplayName, err)
	}

	return fmt.Sprintf("[%s] %s", entry.DisplayName, payload)
}

// postJSON sends params as a JSON body and returns the compact JSON payload.
func (d *Dispatcher) postJSON(ctx context.Context, path string, params map[string]any) (string, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return d.do(req)
}

// getQuery sends params as URL query parameters and returns the compact
// JSON payload.
func (d *Dispatcher) getQuery(ctx context.Context, path string, params map[string]any) (string, error) {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, paramString(v))
	}

	reqURL := d.baseURL + path
	if len(values) > 0 {
		reqURL += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return d.do(req)
}

// do executes the request and re-serializes the decoded JSON payload.
// The payload structure is opaque to the dispatcher.
func (d *Dispatcher) do(req *http.Request) (string, error) {
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := httpkit.ReadErrorBody(resp.Body, 512)
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(out), nil
}

// paramString renders a directive parameter value for a query string.
// Numbers keep their shortest decimal form.
func paramString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

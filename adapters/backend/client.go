package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"civia/domain/insight"
	"civia/internal/errors"
	"civia/ports"
)

var _ ports.AnalyticsBackend = (*Client)(nil)

// Client issues the analytics backend REST calls. Its only state is the
// base URL; every call is independent and never retried.
type Client struct {
	baseURL  string
	kpisPath string
	http     *http.Client
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero means no client-side deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http = &http.Client{Timeout: timeout}
	}
}

// WithKpisPath overrides the KPI route, which is not fixed by the backend contract
func WithKpisPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.kpisPath = "/" + strings.TrimLeft(path, "/")
		}
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		kpisPath: "/api/kpis",
		http:     &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resolved base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RunPipeline triggers POST /api/run_pipeline
func (c *Client) RunPipeline(ctx context.Context) (*insight.PipelineRunResult, error) {
	var result insight.PipelineRunResult
	if err := c.doJSON(ctx, "run pipeline", http.MethodPost, "/api/run_pipeline", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMetrics fetches GET /api/metrics, keeping the key order of the response
func (c *Client) GetMetrics(ctx context.Context) (*insight.Metrics, error) {
	const op = "get metrics"
	body, err := c.do(ctx, op, http.MethodGet, "/api/metrics")
	if err != nil {
		return nil, err
	}
	metrics, err := insight.ParseMetrics(body)
	if err != nil {
		return nil, errors.DecodeFailed(op, err)
	}
	return metrics, nil
}

// ExplainDashboard triggers POST /api/explain
func (c *Client) ExplainDashboard(ctx context.Context) (*insight.ExplanationResult, error) {
	var result insight.ExplanationResult
	if err := c.doJSON(ctx, "explain dashboard", http.MethodPost, "/api/explain", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetKpis fetches the KPI snapshot
func (c *Client) GetKpis(ctx context.Context) (*insight.KpiSnapshot, error) {
	var result insight.KpiSnapshot
	if err := c.doJSON(ctx, "get kpis", http.MethodGet, c.kpisPath, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ChartURL returns {base}/static/{name}
func (c *Client) ChartURL(name string) string {
	return fmt.Sprintf("%s/static/%s", c.baseURL, name)
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, out interface{}) error {
	body, err := c.do(ctx, op, method, path)
	if err != nil {
		return err
	}
	if err := decodeObject(body, out); err != nil {
		return errors.DecodeFailed(op, err)
	}
	return nil
}

// do sends a bodyless request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, op, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.RequestNotSent(op, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.RequestNotSent(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.RequestFailed(op, resp.StatusCode, statusText(resp))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.DecodeFailed(op, fmt.Errorf("read response: %w", err))
	}
	return body, nil
}

// decodeObject requires a JSON object body
func decodeObject(body []byte, out interface{}) error {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fmt.Errorf("empty response body")
	}
	if !strings.HasPrefix(trimmed, "{") {
		return fmt.Errorf("expected a JSON object")
	}
	return json.Unmarshal(body, out)
}

// statusText prefers the reason phrase sent by the server
func statusText(resp *http.Response) string {
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && reason != "" {
		return reason
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}

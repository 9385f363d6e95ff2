package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Config holds the configuration for connecting to the PayGuard API.
type Config struct {
	APIURL string // Base URL, e.g. "http://localhost:8080"
}

// PayGuardClient is a pure HTTP client for the PayGuard risk scoring API.
type PayGuardClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewPayGuardClient creates a new client for the PayGuard API.
func NewPayGuardClient(cfg Config) *PayGuardClient {
	return &PayGuardClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// apiError represents an error response from the API.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doRequest makes an HTTP request to the API and returns the response body.
func (c *PayGuardClient) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.APIURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return json.RawMessage(respBody), nil
}

// Analyze scores a message for payment fraud risk.
func (c *PayGuardClient) Analyze(ctx context.Context, message, channel, actorRole, amount string) (json.RawMessage, error) {
	body := map[string]string{
		"message": message,
	}
	if channel != "" {
		body["channel"] = channel
	}
	if actorRole != "" {
		body["actorRole"] = actorRole
	}
	if amount != "" {
		body["amount"] = amount
	}
	return c.doRequest(ctx, http.MethodPost, "/api/analyze", nil, body)
}

// EventsSummary returns aggregate counts and recent scored events.
func (c *PayGuardClient) EventsSummary(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/api/events-summary", nil, nil)
}

// Health returns the service health report.
func (c *PayGuardClient) Health(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/health", nil, nil)
}

// Package backend is the HTTP+JSON client for the application API and the
// support services behind it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/backoffice/internal/ports/secondary"
)

// DefaultTimeout bounds every backend request.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// Service names a backend service with its own base URL.
type Service string

const (
	ServiceApplication       Service = "application"
	ServicePaymentProxy      Service = "payment-proxy"
	ServiceMessageGenerator  Service = "message-generator"
	ServiceDocumentGenerator Service = "document-generator"
	ServiceCommsProxy        Service = "comms-proxy"
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURLs maps each service to its base URL. ServiceApplication is
	// required.
	BaseURLs map[Service]string
	// APIKey is sent as x-api-key on every request.
	APIKey string
	// HTTPClient is used for all requests. If nil, a client with
	// DefaultTimeout is used.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// StatusError is returned for a non-2xx response.
type StatusError struct {
	StatusCode int
	Method     string
	Endpoint   string
	// Message is the backend's error message, when it sent one.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s %s returned %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend: %s %s returned %d", e.Method, e.Endpoint, e.StatusCode)
}

// Unwrap lets errors.Is match secondary.ErrNotFound on a 404.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return secondary.ErrNotFound
	}
	return nil
}

// Client implements the backend ports over HTTP.
type Client struct {
	baseURLs   map[Service]string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new backend client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURLs[ServiceApplication] == "" {
		return nil, fmt.Errorf("backend: %s base URL is required", ServiceApplication)
	}

	baseURLs := make(map[Service]string, len(cfg.BaseURLs))
	for svc, raw := range cfg.BaseURLs {
		if raw == "" {
			continue
		}
		if _, err := url.Parse(raw); err != nil {
			return nil, fmt.Errorf("backend: invalid %s base URL %q: %w", svc, raw, err)
		}
		baseURLs[svc] = strings.TrimRight(raw, "/")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURLs:   baseURLs,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// response is a completed exchange with a 2xx status.
type response struct {
	statusCode int
	body       []byte
}

// do sends one request. Non-2xx responses are logged and returned as
// *StatusError.
func (c *Client) do(ctx context.Context, svc Service, method, path string, requestBody any) (*response, error) {
	base, ok := c.baseURLs[svc]
	if !ok {
		return nil, fmt.Errorf("backend: no base URL configured for %s", svc)
	}
	endpoint := base + path

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("backend: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("backend: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "backend request failed", "method", method, "endpoint", endpoint, "error", err)
		return nil, fmt.Errorf("backend: request to %s %s failed: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("backend: failed to read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &response{statusCode: resp.StatusCode, body: body}, nil
	}

	statusErr := &StatusError{
		StatusCode: resp.StatusCode,
		Method:     method,
		Endpoint:   endpoint,
		Message:    errorMessage(body),
	}
	if resp.StatusCode == http.StatusNotFound {
		c.logger.DebugContext(ctx, "backend entity not found", "method", method, "endpoint", endpoint)
	} else {
		c.logger.ErrorContext(ctx, "backend request failed",
			"method", method,
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"message", statusErr.Message,
		)
	}
	return nil, statusErr
}

// getJSON decodes a GET response into out.
func (c *Client) getJSON(ctx context.Context, svc Service, path string, out any) error {
	resp, err := c.do(ctx, svc, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decode(resp.body, out)
}

// sendJSON sends body and decodes the response into out when out is non-nil.
func (c *Client) sendJSON(ctx context.Context, svc Service, method, path string, body, out any) error {
	resp, err := c.do(ctx, svc, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(resp.body, out)
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("backend: failed to parse response: %w", err)
	}
	return nil
}

// errorMessage extracts the message from a boom-style error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		return payload.Message
	}
	return ""
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
